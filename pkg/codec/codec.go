// Package codec serializes the combined task and award state into the single
// text blob kept in the persistence slot.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/harrisonrobin/spacepod/pkg/model"
)

// ErrEmptyBlob is wrapped by DecodeError when there is nothing to decode.
var ErrEmptyBlob = errors.New("empty blob")

// State is everything that survives a restart.
type State struct {
	Tasks          []model.Task          `json:"tasks"`
	UnlockedAwards []model.UnlockedAward `json:"unlockedAwards"`
}

// DecodeError reports a malformed or absent blob. Callers treat it as
// "no prior state".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode state: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode renders s as JSON. Nil collections are written as empty arrays.
func Encode(s State) string {
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	if s.UnlockedAwards == nil {
		s.UnlockedAwards = []model.UnlockedAward{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		// Every field has an infallible marshaler.
		panic(fmt.Sprintf("codec: encode state: %v", err))
	}
	return string(b)
}

// Decode parses a blob produced by Encode, or by the original app.
func Decode(blob string) (State, error) {
	if strings.TrimSpace(blob) == "" {
		return State{}, &DecodeError{Err: ErrEmptyBlob}
	}

	var s State
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return State{}, &DecodeError{Err: err}
	}
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	if s.UnlockedAwards == nil {
		s.UnlockedAwards = []model.UnlockedAward{}
	}
	return s, nil
}
