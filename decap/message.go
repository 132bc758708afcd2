// Package decap formats the postMessage strings exchanged with the Decap CMS
// login popup.
//
// The popup first posts "authorizing:<provider>" to any origin. When the CMS
// answers, the popup posts "authorization:<provider>:<status>:<json>" back to
// the answering origin.
package decap

import (
	"encoding/json"
	"fmt"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Handshake is the first message posted to the opener.
func Handshake(provider string) string {
	return "authorizing:" + provider
}

// Message is the authorization result posted to the opener.
type Message struct {
	Provider string
	Status   Status
	Token    string
	Error    string
}

func Success(provider, token string) Message {
	return Message{Provider: provider, Status: StatusSuccess, Token: token}
}

func Failure(provider, errorMessage string) Message {
	return Message{Provider: provider, Status: StatusError, Error: errorMessage}
}

type successPayload struct {
	Token    string `json:"token"`
	Provider string `json:"provider"`
}

type errorPayload struct {
	Message  string `json:"message"`
	Provider string `json:"provider"`
}

// String renders the message in the form the CMS parses.
func (m Message) String() string {
	var payload any
	if m.Status == StatusSuccess {
		payload = successPayload{Token: m.Token, Provider: m.Provider}
	} else {
		payload = errorPayload{Message: m.Error, Provider: m.Provider}
	}

	// Marshalling two string fields cannot fail.
	body, _ := json.Marshal(payload)
	return fmt.Sprintf("authorization:%s:%s:%s", m.Provider, m.statusOrError(), body)
}

func (m Message) statusOrError() Status {
	if m.Status == StatusSuccess {
		return StatusSuccess
	}
	return StatusError
}
