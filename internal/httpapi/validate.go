package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const nonBlank = `{"type":"string","minLength":1,"pattern":"\\S"}`

var (
	chatSchema = mustSchema(`{
		"type": "object",
		"required": ["text", "model"],
		"properties": {
			"text": ` + nonBlank + `,
			"model": {"type": "string", "minLength": 1}
		}
	}`)

	predictSchema = mustSchema(`{
		"type": "object",
		"required": ["text"],
		"properties": {
			"text": ` + nonBlank + `,
			"model": {"type": "string"}
		}
	}`)

	zeroShotSchema = mustSchema(`{
		"type": "object",
		"required": ["text", "candidate_labels"],
		"properties": {
			"text": ` + nonBlank + `,
			"candidate_labels": {
				"type": "array",
				"minItems": 1,
				"items": ` + nonBlank + `
			}
		}
	}`)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic("httpapi: bad schema: " + err.Error())
	}
	return schema
}

// decodeBody enforces the JSON content type and body limit, validates the
// body against schema and decodes it into dst. It writes the error response
// and returns false when the request is rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		countValidationFailure("content_type")
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			countValidationFailure("too_large")
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		countValidationFailure("read")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if !json.Valid(body) {
		countValidationFailure("json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		countValidationFailure("json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if !res.Valid() {
		countValidationFailure("schema")
		writeJSONError(w, http.StatusBadRequest, schemaMessage(res.Errors()))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		countValidationFailure("json")
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func schemaMessage(errs []gojsonschema.ResultError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Field()+": "+e.Description())
	}
	return strings.Join(msgs, "; ")
}
