package training

import (
	"bytes"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"
)

var ErrMalformedPayload = errors.New("malformed training payload")

// Payload is the serializable form of a store; the bucket index is not part
// of it and is rebuilt on load.
type Payload struct {
	Data   [][]float64 `json:"data"`
	Labels []int       `json:"labels"`
}

func (store *Store) ToSerializable() Payload {
	payload := Payload{
		Data:   make([][]float64, len(store.data)),
		Labels: make([]int, len(store.labels)),
	}

	for i, item := range store.data {
		payload.Data[i] = append([]float64(nil), item...)
	}
	copy(payload.Labels, store.labels)

	return payload
}

func (payload Payload) validate() error {
	if payload.Data == nil || payload.Labels == nil {
		return errors.Wrap(ErrMalformedPayload, "data and labels are required")
	}

	if len(payload.Data) != len(payload.Labels) {
		return errors.Wrapf(ErrMalformedPayload, "%d samples for %d labels", len(payload.Data), len(payload.Labels))
	}

	for i, item := range payload.Data {
		if len(item) != len(payload.Data[0]) {
			return errors.Wrapf(ErrMalformedPayload, "sample %d has %d features, expected %d", i, len(item), len(payload.Data[0]))
		}
	}

	return nil
}

// FromSerializable replaces the content of the store by replaying Add for
// every sample of the payload, so duplicates in the payload are dropped.
// A malformed payload leaves the store untouched.
func (store *Store) FromSerializable(payload Payload) error {
	if err := payload.validate(); err != nil {
		return err
	}

	store.Clear()
	for i, item := range payload.Data {
		store.Add(item, payload.Labels[i])
	}

	return nil
}

func (store *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(store.ToSerializable())
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func (store *Store) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data   json.RawMessage `json:"data"`
		Labels json.RawMessage `json:"labels"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(ErrMalformedPayload, err.Error())
	}

	if !isJSONArray(raw.Data) || !isJSONArray(raw.Labels) {
		return errors.Wrap(ErrMalformedPayload, "data and labels must be arrays")
	}

	var payload Payload
	if err := json.Unmarshal(raw.Data, &payload.Data); err != nil {
		return errors.Wrap(ErrMalformedPayload, err.Error())
	}

	if err := json.Unmarshal(raw.Labels, &payload.Labels); err != nil {
		return errors.Wrap(ErrMalformedPayload, err.Error())
	}

	return store.FromSerializable(payload)
}

func (store *Store) SaveFile(filename string) error {
	data, err := json.Marshal(store)
	if err != nil {
		return errors.Wrap(err, "could not encode training data")
	}

	if err := ioutil.WriteFile(filename, data, 0644); err != nil {
		return errors.Wrapf(err, "could not write training data to %s", filename)
	}

	return nil
}

func (store *Store) LoadFile(filename string) error {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "could not read training data from %s", filename)
	}

	return errors.Wrapf(store.UnmarshalJSON(data), "could not load %s", filename)
}
