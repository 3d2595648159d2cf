package org

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/orgmorph/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("craft", func(fl validator.FieldLevel) bool {
		return Craft(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("org: register craft validation: %v", err))
	}
	return v
}

// ValidatePerson checks the field constraints of a single person: names and
// id present, known craft, seniority in 1..4, manager time in {0, 50, 100}.
func ValidatePerson(p Person) error {
	if err := validate.Struct(p); err != nil {
		return toCoded(errors.ErrCodeInvalidPerson, err)
	}
	return nil
}

// ValidateSquad checks that a squad has an id and a name.
func ValidateSquad(s Squad) error {
	if err := validate.Struct(s); err != nil {
		return toCoded(errors.ErrCodeInvalidSquad, err)
	}
	return nil
}

// Validate checks a whole snapshot at a trust boundary (load, import,
// replace). Field constraints, then id uniqueness.
func (o *Organization) Validate() error {
	if err := validate.Struct(o); err != nil {
		return toCoded(errors.ErrCodeInvalidSnapshot, err)
	}
	seen := make(map[string]bool, len(o.People)+1)
	seen[o.Director.ID] = true
	for _, p := range o.People {
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "duplicate person id %q", p.ID)
		}
		seen[p.ID] = true
	}
	squads := make(map[string]bool, len(o.Squads))
	for _, s := range o.Squads {
		if squads[s.ID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "duplicate squad id %q", s.ID)
		}
		squads[s.ID] = true
	}
	return nil
}

// Issue is a referential inconsistency that does not prevent layout but is
// worth reporting, such as a developer whose manager no longer exists.
type Issue struct {
	PersonID string
	Message  string
}

func (i Issue) String() string { return i.PersonID + ": " + i.Message }

// Check reports dangling references. The layout engine tolerates every one of
// them by leaving the person out of the affected grouping.
func (o *Organization) Check() []Issue {
	idx := NewIndex(o.People)
	squads := make(map[string]bool, len(o.Squads))
	for _, s := range o.Squads {
		squads[s.ID] = true
	}

	var issues []Issue
	for _, p := range o.People {
		switch {
		case p.IsManager && p.ManagerID != "" && p.ManagerID != o.Director.ID:
			issues = append(issues, Issue{p.ID, fmt.Sprintf("manager reports to %q instead of the director", p.ManagerID)})
		case !p.IsManager && p.ManagerID == "":
			issues = append(issues, Issue{p.ID, "developer has no manager"})
		case !p.IsManager && !idx.IsManager(p.ManagerID):
			issues = append(issues, Issue{p.ID, fmt.Sprintf("unknown manager %q", p.ManagerID)})
		}
		if p.SquadID != "" && !squads[p.SquadID] {
			issues = append(issues, Issue{p.ID, fmt.Sprintf("unknown squad %q", p.SquadID)})
		}
	}
	return issues
}

func toCoded(code errors.Code, err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(code, err, "validation failed")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return errors.New(code, "%s", strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "craft":
		return fmt.Sprintf("%s %q is not a known craft (%s)", field, fe.Value(), strings.Join(CraftNames(), ", "))
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 4, got %v", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %v", field, fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %q", field, fe.Tag())
}
