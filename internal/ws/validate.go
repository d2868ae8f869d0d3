package ws

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Client-facing validation texts, keyed by struct field. These are part of
// the wire contract with the frontend.
var fieldMessages = map[string]string{
	"Name":     "Name is required",
	"RoomName": "Room name is required",
	"RoomCode": "Room code is required",
	"Content":  "Message content is required",
}

var (
	errInvalidFormat = errors.New("Invalid message format.")
	errInvalidAction = errors.New("Invalid action type")
)

// parseAction turns a raw frame into exactly one typed action or a validation
// error whose text goes back to the client as an error event. The chat core
// only ever sees well-typed actions.
func parseAction(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errInvalidFormat
	}

	switch env.Action {
	case "create":
		a := CreateAction{Name: env.Name, RoomName: env.RoomName}
		if err := validate.Struct(a); err != nil {
			return nil, fieldError(err)
		}
		return a, nil
	case "join":
		a := JoinAction{Name: env.Name, RoomCode: env.RoomCode}
		if err := validate.Struct(a); err != nil {
			return nil, fieldError(err)
		}
		return a, nil
	case "message":
		a := MessageAction{Content: env.Content}
		if err := validate.Struct(a); err != nil {
			return nil, fieldError(err)
		}
		return a, nil
	default:
		return nil, errInvalidAction
	}
}

// fieldError maps the first failed field to its client-facing message.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fieldMessages[verrs[0].Field()]; ok {
			return errors.New(msg)
		}
	}
	return errInvalidFormat
}
