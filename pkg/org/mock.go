package org

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Fixed ids of the generated sample organisation.
const (
	MockDirectorID = "director-001"
	MockRTEID      = "rte-001"
	MockTrainID    = "train-001"
)

const mockSquadCount = 8

var mockSquadNames = [mockSquadCount]string{
	"Squad Alpha", "Squad Beta", "Squad Gamma", "Squad Delta",
	"Squad Epsilon", "Squad Zeta", "Squad Eta", "Squad Theta",
}

var mockFirstNames = []string{
	"Jean", "Marie", "Pierre", "Sophie", "Luc", "Claire", "Thomas", "Emma",
	"Nicolas", "Julie", "Alexandre", "Camille", "Julien", "Laura", "Maxime", "Sarah",
	"Antoine", "Léa", "Baptiste", "Manon", "Mathieu", "Charlotte", "François", "Alice",
	"Vincent", "Chloé", "Benjamin", "Pauline", "Lucas", "Marine", "Hugo", "Anaïs",
	"Romain", "Lucie", "Simon", "Mélanie", "Clément", "Audrey", "Florian", "Élise",
	"Adrien", "Caroline", "Damien", "Laure", "Jérôme", "Céline", "Olivier", "Isabelle",
}

var mockLastNames = []string{
	"Dupont", "Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit",
	"Durand", "Leroy", "Moreau", "Simon", "Laurent", "Lefebvre", "Michel", "Garcia",
	"David", "Bertrand", "Roux", "Vincent", "Fournier", "Morel", "Girard", "André",
	"Lefevre", "Mercier", "Dupuis", "Lambert", "Bonnet", "François", "Martinez", "Legrand",
	"Garnier", "Faure", "Rousseau", "Blanc", "Guerin", "Muller", "Henry", "Roussel",
	"Nicolas", "Perrin", "Morin", "Mathieu", "Clement", "Gauthier", "Dumont", "Lopez",
}

// mockManager describes one generated manager. A squad index of -1 means a
// full-time manager outside any squad.
type mockManager struct {
	id    string
	craft Craft
	squad int
}

var mockManagers = []mockManager{
	{"manager-cloud-001", CraftCloud, 0},
	{"manager-cloud-002", CraftCloud, -1},
	{"manager-mobile-001", CraftMobile, 2},
	{"manager-mobile-002", CraftMobile, -1},
	{"manager-embedded-001", CraftEmbedded, -1},
	{"manager-test-001", CraftTestAuto, 5},
	{"manager-infra-001", CraftInfra, -1},
}

var mockDistribution = []struct {
	craft Craft
	count int
}{
	{CraftCloud, 12},
	{CraftMobile, 10},
	{CraftEmbedded, 8},
	{CraftTestAuto, 8},
	{CraftInfra, 7},
}

var mockSeniority = [8]int{2, 2, 2, 3, 3, 3, 3, 4}

// MockOptions controls the sample data generator. Zero values use a random
// seed, the wall clock and random UUIDs.
type MockOptions struct {
	Rand  *rand.Rand
	Now   func() time.Time
	NewID func() string
}

// Mock generates a realistic sample organisation: one director, seven
// managers (two Cloud, two Mobile, one each for the other crafts), 45
// developers, eight squads in the "Cantal" train and its RTE.
func Mock(opts MockOptions) *Organization {
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	squadIDs := make([]string, mockSquadCount)
	for i := range squadIDs {
		squadIDs[i] = fmt.Sprintf("squad-%03d", i+1)
	}

	names := &nameSource{r: r, used: make(map[string]bool)}
	var people []Person

	managersByCraft := make(map[Craft][]string)
	for _, m := range mockManagers {
		first, last := names.next()
		p := Person{
			ID:                 m.id,
			FirstName:          first,
			LastName:           last,
			Craft:              m.craft,
			Seniority:          4,
			ManagerID:          MockDirectorID,
			IsManager:          true,
			ManagerTimePercent: 100,
		}
		if m.squad >= 0 {
			p.SquadID = squadIDs[m.squad]
			p.ManagerTimePercent = 50
		}
		people = append(people, p)
		managersByCraft[m.craft] = append(managersByCraft[m.craft], m.id)
	}

	devIndex := 0
	for _, d := range mockDistribution {
		for i := range d.count {
			first, last := names.next()
			managers := managersByCraft[d.craft]
			people = append(people, Person{
				ID:            newID(),
				FirstName:     first,
				LastName:      last,
				Craft:         d.craft,
				Seniority:     mockSeniority[i%len(mockSeniority)],
				IsLeadDev:     i == 0 && r.Float64() > 0.5,
				IsTechLead:    i == 1 && r.Float64() > 0.6,
				IsScrumMaster: i%6 == 0,
				ManagerID:     managers[r.IntN(len(managers))],
				SquadID:       squadIDs[devIndex%mockSquadCount],
			})
			devIndex++
		}
	}

	squads := make([]Squad, mockSquadCount)
	for i, id := range squadIDs {
		members := []string{}
		for _, p := range people {
			if p.SquadID == id {
				members = append(members, p.ID)
			}
		}
		squads[i] = Squad{ID: id, Name: mockSquadNames[i], TrainID: MockTrainID, MemberIDs: members}
	}

	return &Organization{
		Version:     SchemaVersion,
		LastUpdated: now().UnixMilli(),
		Director: Director{
			ID:         MockDirectorID,
			FirstName:  "Marie",
			LastName:   "Dubois",
			Title:      "Directeur de l'Engineering",
			IsDirector: true,
		},
		People: people,
		Squads: squads,
		Train: Train{
			ID:       MockTrainID,
			Name:     "Cantal",
			RTEID:    MockRTEID,
			SquadIDs: squadIDs,
		},
		RTE: RTE{
			ID:        MockRTEID,
			FirstName: "Sophie",
			LastName:  "Laurent",
			Title:     "RTE",
			TrainID:   MockTrainID,
		},
	}
}

type nameSource struct {
	r    *rand.Rand
	used map[string]bool
}

// next draws a first/last name pair not used before. After 100 collisions
// the last name gets a numeric suffix.
func (n *nameSource) next() (string, string) {
	for attempt := 1; ; attempt++ {
		first := mockFirstNames[n.r.IntN(len(mockFirstNames))]
		last := mockLastNames[n.r.IntN(len(mockLastNames))]
		if attempt > 100 {
			last = fmt.Sprintf("%s %d", last, attempt)
		}
		full := first + " " + last
		if !n.used[full] {
			n.used[full] = true
			return first, last
		}
	}
}
