package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxAssignmentBatch bounds how many students one request may assign
const MaxAssignmentBatch = 200

// BusinessValidator handles domain rules that struct tags cannot express
type BusinessValidator struct {
	validate *validator.Validate
}

func newBusinessValidator(validate *validator.Validate) *BusinessValidator {
	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()
	return bv
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Store-assigned ids are UUIDs
	_ = bv.validate.RegisterValidation("entity_id", func(fl validator.FieldLevel) bool {
		return isEntityID(fl.Field().String())
	})
}

func isEntityID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

// NormalizeStudentIDs trims and de-duplicates a batch of student ids,
// keeping first-seen order, and checks every id is well formed. The batch
// must be non-empty after normalisation.
func (bv *BusinessValidator) NormalizeStudentIDs(ids []string) ([]string, ValidationErrors) {
	var errs ValidationErrors

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for i, raw := range ids {
		id := strings.ToLower(strings.TrimSpace(raw))
		if !isEntityID(id) {
			errs = append(errs, ValidationError{
				Field:   fieldIndex("student_ids", i),
				Message: "must be a valid id",
				Value:   raw,
				Rule:    "entity_id",
			})
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	switch {
	case len(out) == 0:
		return nil, ValidationErrors{{Field: "student_ids", Message: "must contain at least 1 item(s)", Rule: "min"}}
	case len(out) > MaxAssignmentBatch:
		return nil, ValidationErrors{{Field: "student_ids", Message: fmt.Sprintf("must contain at most %d item(s)", MaxAssignmentBatch), Rule: "max"}}
	}

	return out, nil
}

func fieldIndex(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
