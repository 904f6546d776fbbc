// Package validation applies the schema and size checks the HTTP layer
// must run before anything reaches storage. Signal types are only checked
// for presence; unrecognized types are accepted and normalize to unknown.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/thornfield-systems/behavior-guard/internal/domain/model"
)

var validate = validator.New()

// FieldErrors maps a field name to the human-readable messages describing
// why it failed, matching the error envelope's `details` shape.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

type sessionFields struct {
	ClientID          string `validate:"required,max=256"`
	DeviceFingerprint string `validate:"required,max=512"`
}

// CreateSession validates a session creation request body.
func CreateSession(req model.CreateSessionRequest) FieldErrors {
	errs := FieldErrors{}
	fields := sessionFields{ClientID: req.ClientID, DeviceFingerprint: req.DeviceFingerprint}
	if err := validate.Struct(fields); err != nil {
		translate(err, map[string]string{"ClientID": "clientId", "DeviceFingerprint": "deviceFingerprint"}, errs)
	}
	return errs
}

const maxSignalBatch = 1000

// AppendSignals validates a signal append request body: batch size bounds
// and each signal's type/timestamp/payload.
func AppendSignals(signals []model.SignalInput) FieldErrors {
	errs := FieldErrors{}

	if len(signals) < 1 || len(signals) > maxSignalBatch {
		errs.add("signals", fmt.Sprintf("batch size must be between 1 and %d, got %d", maxSignalBatch, len(signals)))
		return errs
	}

	for i, s := range signals {
		field := fmt.Sprintf("signals[%d]", i)
		if s.Type == "" {
			errs.add(field+".type", "type is required")
		}
		if s.Timestamp <= 0 {
			errs.add(field+".timestamp", "timestamp must be a positive Unix-ms value")
		}
		if s.Payload == nil {
			errs.add(field+".payload", "payload must not be null")
		}
	}

	return errs
}

func translate(err error, jsonNames map[string]string, errs FieldErrors) {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.add("_", err.Error())
		return
	}
	for _, fe := range validationErrs {
		field := jsonNames[fe.Field()]
		if field == "" {
			field = fe.Field()
		}
		errs.add(field, message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
