package services

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/desertthunder/brain/internal/models"
	"github.com/desertthunder/brain/internal/shared"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed profile.schema.json
var profileSchemaJSON []byte

var profileSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(profileSchemaJSON))
})

// ValidateProfile checks data against the embedded ProfileData JSON schema. Failures wrap [shared.ErrValidation].
func ValidateProfile(data models.ProfileData) error {
	schema, err := profileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile profile schema: %w", err)
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("failed to validate profile: %w", err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", shared.ErrValidation, strings.Join(msgs, "; "))
}
