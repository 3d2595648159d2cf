package roster

import (
	"strings"

	"github.com/matzehuels/orgmorph/pkg/errors"
	"github.com/matzehuels/orgmorph/pkg/org"
)

// ValidateForm checks a person as entered in the edit form. Developers must
// have a manager; managers report to the director implicitly. All problems
// are reported at once with code INVALID_PERSON.
func ValidateForm(p org.Person) error {
	var msgs []string
	if strings.TrimSpace(p.FirstName) == "" {
		msgs = append(msgs, "Le prénom est requis")
	}
	if strings.TrimSpace(p.LastName) == "" {
		msgs = append(msgs, "Le nom est requis")
	}
	if !p.Craft.Valid() {
		msgs = append(msgs, "Métier invalide")
	}
	if p.Seniority < 1 || p.Seniority > 4 {
		msgs = append(msgs, "La séniorité doit être entre 1 et 4")
	}
	if !p.IsManager && p.ManagerID == "" {
		msgs = append(msgs, "Veuillez sélectionner un manager")
	}
	if len(msgs) > 0 {
		return errors.New(errors.ErrCodeInvalidPerson, "%s", strings.Join(msgs, "; "))
	}
	return nil
}
