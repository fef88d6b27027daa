package api

import (
	"context"
	_ "embed"
	"encoding/json"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/gigpay/pkg/apperr"
)

// Request body schemas are embedded and compiled once at startup.

//go:embed schemas/deposit_request.json
var depositSchemaJSON []byte

//go:embed schemas/signup_request.json
var signupSchemaJSON []byte

var (
	depositSchema = mustCompileSchema(depositSchemaJSON)
	signupSchema  = mustCompileSchema(signupSchemaJSON)
)

func mustCompileSchema(b []byte) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal(b, rs); err != nil {
		panic(err)
	}
	return rs
}

// validateBody checks raw JSON against a compiled schema and folds the first
// violation into a BadRequest error.
func validateBody(ctx context.Context, schema *jsonschema.Schema, body []byte) error {
	keyErrs, err := schema.ValidateBytes(ctx, body)
	if err != nil {
		return apperr.Wrap(apperr.KindBadRequest, "invalid_request", "request body is not valid JSON", err)
	}
	if len(keyErrs) > 0 {
		return apperr.New(apperr.KindBadRequest, "invalid_request", keyErrs[0].Message)
	}

	return nil
}
