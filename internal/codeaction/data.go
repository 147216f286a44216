package codeaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/tliron/glsp/protocol_3_16"
)

var (
	// ErrStale is returned when a deferred action is resolved against a
	// document whose content changed since the action was listed.
	ErrStale = errors.New("code action is stale: document changed")
	// ErrBadData is returned for an action whose data cannot be decoded.
	ErrBadData = errors.New("code action data is missing or malformed")
)

// Target is the request a deferred action replays.
type Target struct {
	URI   protocol.DocumentUri `json:"uri"`
	Range protocol.Range       `json:"range"`
}

// Data is carried by deferred actions between codeAction and
// codeAction/resolve. Fingerprint is a decimal string since JSON numbers
// cannot hold a 64 bit hash exactly.
type Data struct {
	ID          string    `json:"id"`
	Params      Target    `json:"params"`
	Fingerprint string    `json:"fingerprint"`
	Snapshot    uuid.UUID `json:"snapshot"`
}

func fingerprintString(f uint64) string {
	return strconv.FormatUint(f, 10)
}

// DecodeData reads the data of a deferred action. It accepts the value as
// produced by Builder.Data or as decoded from JSON by the transport.
func DecodeData(v any) (*Data, error) {
	switch d := v.(type) {
	case nil:
		return nil, ErrBadData
	case *Data:
		return checkData(d)
	case Data:
		return checkData(&d)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	return checkData(&d)
}

func checkData(d *Data) (*Data, error) {
	if d == nil || d.ID == "" || d.Params.URI == "" {
		return nil, ErrBadData
	}
	return d, nil
}
