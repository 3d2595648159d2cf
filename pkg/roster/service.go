package roster

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/org"
	"github.com/matzehuels/orgmorph/pkg/store"
)

// Options configures a [Service]. Zero values use a discard logger, the wall
// clock, random UUIDs and a randomly seeded generator for sample data.
type Options struct {
	Logger *log.Logger
	Now    func() time.Time
	NewID  func() string
	Rand   *rand.Rand
}

// Service runs roster use cases against a store.
type Service struct {
	snapshots *store.Snapshots
	logger    *log.Logger
	now       func() time.Time
	newID     func() string
	rand      *rand.Rand
}

// New returns a service backed by s.
func New(s store.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{
		snapshots: store.NewSnapshots(s, opts.Now),
		logger:    opts.Logger,
		now:       opts.Now,
		newID:     opts.NewID,
		rand:      opts.Rand,
	}
}

// Snapshots returns the snapshot layer the service writes through.
func (s *Service) Snapshots() *store.Snapshots { return s.snapshots }

// Initialize returns the stored organisation, generating and saving the
// sample organisation when the store is empty.
func (s *Service) Initialize(ctx context.Context) (*org.Organization, error) {
	o, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	if o != nil {
		s.logger.Debug("loaded organisation", "people", len(o.People), "squads", len(o.Squads))
		return o, nil
	}

	o = s.mock()
	if err := s.snapshots.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("generated sample organisation", "people", len(o.People), "squads", len(o.Squads))
	return o, nil
}

// Current returns the stored organisation. Unlike [Service.Initialize] it
// never writes; an empty store yields NOT_FOUND.
func (s *Service) Current(ctx context.Context) (*org.Organization, error) {
	o, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no organisation data stored")
	}
	return o, nil
}

// Person looks a person up by id, then by name ("First Last" or
// "Last First").
func (s *Service) Person(ctx context.Context, ref string) (org.Person, error) {
	o, err := s.Initialize(ctx)
	if err != nil {
		return org.Person{}, err
	}
	return findPerson(o, ref)
}

// Squad looks a squad up by id, then by name.
func (s *Service) Squad(ctx context.Context, ref string) (org.Squad, error) {
	o, err := s.Initialize(ctx)
	if err != nil {
		return org.Squad{}, err
	}
	return findSquad(o, ref)
}

func findPerson(o *org.Organization, ref string) (org.Person, error) {
	if p, ok := o.Person(ref); ok {
		return p, nil
	}
	for _, p := range o.People {
		if org.MatchName(ref, p.FirstName, p.LastName) {
			return p, nil
		}
	}
	return org.Person{}, errors.New(errors.ErrCodePersonNotFound, "person %q not found", ref)
}

func findSquad(o *org.Organization, ref string) (org.Squad, error) {
	if sq, ok := o.Squad(ref); ok {
		return sq, nil
	}
	if sq, ok := o.FindSquad(ref); ok {
		return sq, nil
	}
	return org.Squad{}, errors.New(errors.ErrCodeSquadNotFound, "squad %q not found", ref)
}

// AddPerson assigns a new id to p, adds it and returns the stored person.
// Managers are attached to the director.
func (s *Service) AddPerson(ctx context.Context, p org.Person) (org.Person, error) {
	var added org.Person
	_, err := s.mutate(ctx, "add person", func(o *org.Organization) (*org.Organization, error) {
		p.ID = s.newID()
		if p.IsManager {
			p.ManagerID = o.Director.ID
		} else {
			p.ManagerTimePercent = 0
		}
		if err := validatePerson(o, p); err != nil {
			return nil, err
		}
		added = p
		return o.AddPerson(p)
	})
	return added, err
}

// UpdatePerson applies patch to person id and returns the updated person.
// Changing SquadID moves the person between squad member lists.
func (s *Service) UpdatePerson(ctx context.Context, id string, patch org.PersonPatch) (org.Person, error) {
	var updated org.Person
	_, err := s.mutate(ctx, "update person", func(o *org.Organization) (*org.Organization, error) {
		next, err := o.UpdatePerson(id, patch)
		if err != nil {
			return nil, err
		}
		updated, _ = next.Person(id)
		if updated.IsManager && updated.ManagerID == "" {
			next, err = next.UpdatePerson(id, org.PersonPatch{ManagerID: &next.Director.ID})
			if err != nil {
				return nil, err
			}
			updated, _ = next.Person(id)
		}
		if err := validatePerson(next, updated); err != nil {
			return nil, err
		}
		return next, nil
	})
	return updated, err
}

// DeletePerson removes person id and its squad membership.
func (s *Service) DeletePerson(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "delete person", func(o *org.Organization) (*org.Organization, error) {
		return o.DeletePerson(id)
	})
	return err
}

// AddSquad creates an empty squad in the train and returns it.
func (s *Service) AddSquad(ctx context.Context, name string) (org.Squad, error) {
	var added org.Squad
	_, err := s.mutate(ctx, "add squad", func(o *org.Organization) (*org.Organization, error) {
		sq := org.Squad{ID: s.newID(), Name: name, TrainID: o.Train.ID, MemberIDs: []string{}}
		if err := org.ValidateSquad(sq); err != nil {
			return nil, err
		}
		if _, dup := o.FindSquad(name); dup {
			return nil, errors.New(errors.ErrCodeInvalidSquad, "squad %q already exists", name)
		}
		added = sq
		return o.AddSquad(sq)
	})
	return added, err
}

// UpdateSquad applies patch to squad id and returns the updated squad.
func (s *Service) UpdateSquad(ctx context.Context, id string, patch org.SquadPatch) (org.Squad, error) {
	var updated org.Squad
	_, err := s.mutate(ctx, "update squad", func(o *org.Organization) (*org.Organization, error) {
		next, err := o.UpdateSquad(id, patch)
		if err != nil {
			return nil, err
		}
		updated, _ = next.Squad(id)
		if err := org.ValidateSquad(updated); err != nil {
			return nil, err
		}
		return next, nil
	})
	return updated, err
}

// DeleteSquad removes squad id from the train. Its members stay in the
// organisation without a squad.
func (s *Service) DeleteSquad(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "delete squad", func(o *org.Organization) (*org.Organization, error) {
		return o.DeleteSquad(id)
	})
	return err
}

// UpdateDirector merges patch into the director.
func (s *Service) UpdateDirector(ctx context.Context, patch org.DirectorPatch) (org.Director, error) {
	o, err := s.mutate(ctx, "update director", func(o *org.Organization) (*org.Organization, error) {
		return o.UpdateDirector(patch), nil
	})
	if err != nil {
		return org.Director{}, err
	}
	return o.Director, nil
}

// UpdateRTE merges patch into the release train engineer.
func (s *Service) UpdateRTE(ctx context.Context, patch org.RTEPatch) (org.RTE, error) {
	o, err := s.mutate(ctx, "update rte", func(o *org.Organization) (*org.Organization, error) {
		return o.UpdateRTE(patch), nil
	})
	if err != nil {
		return org.RTE{}, err
	}
	return o.RTE, nil
}

// ReplaceAll backs up the current snapshot and stores o in its place.
func (s *Service) ReplaceAll(ctx context.Context, o *org.Organization) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if _, err := s.snapshots.CreateBackup(ctx); err != nil {
		return err
	}
	if err := s.snapshots.Save(ctx, o); err != nil {
		return err
	}
	s.logger.Info("replaced organisation", "people", len(o.People), "squads", len(o.Squads))
	return nil
}

// ResetToMock backs up the current snapshot and stores freshly generated
// sample data.
func (s *Service) ResetToMock(ctx context.Context) (*org.Organization, error) {
	o := s.mock()
	if err := s.ReplaceAll(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Restore puts the backup back in place and returns it.
func (s *Service) Restore(ctx context.Context) (*org.Organization, error) {
	if err := s.snapshots.RestoreBackup(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("restored backup")
	return s.Current(ctx)
}

func (s *Service) mock() *org.Organization {
	return org.Mock(org.MockOptions{Rand: s.rand, Now: s.now, NewID: s.newID})
}

// mutate loads the organisation, applies fn and saves the result.
func (s *Service) mutate(ctx context.Context, op string, fn func(*org.Organization) (*org.Organization, error)) (*org.Organization, error) {
	o, err := s.Initialize(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(o)
	if err != nil {
		return nil, err
	}
	if err := s.snapshots.Save(ctx, next); err != nil {
		return nil, err
	}
	s.logger.Debug(op, "people", len(next.People), "squads", len(next.Squads))
	return next, nil
}

// validatePerson runs the form rules, the field constraints and checks that
// the manager and squad references resolve.
func validatePerson(o *org.Organization, p org.Person) error {
	if err := ValidateForm(p); err != nil {
		return err
	}
	if err := org.ValidatePerson(p); err != nil {
		return err
	}
	if !p.IsManager && !org.NewIndex(o.People).IsManager(p.ManagerID) {
		return errors.New(errors.ErrCodePersonNotFound, "manager %q not found", p.ManagerID)
	}
	if p.SquadID != "" {
		if _, ok := o.Squad(p.SquadID); !ok {
			return errors.New(errors.ErrCodeSquadNotFound, "squad %q not found", p.SquadID)
		}
	}
	return nil
}
