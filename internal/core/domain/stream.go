package domain

import "fmt"

type StreamID string

// Stream is a Graylog stream, used only to verify that policy entries point at
// something that exists.
type Stream struct {
	ID    StreamID
	Title string
}

type Role string

const (
	RoleViewer  Role = "Viewer"
	RoleManager Role = "Manager"
)

const ResourceStreams = "streams"

// StreamGrant assigns a role on one stream.
type StreamGrant struct {
	ID   StreamID `yaml:"id"`
	Role Role     `yaml:"role"`
}

// UnmarshalYAML accepts both integer and string ids.
func (id *StreamID) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*id = ""
	case string:
		*id = StreamID(v)
	case int, int64, uint64:
		*id = StreamID(fmt.Sprintf("%d", v))
	default:
		return fmt.Errorf("unsupported stream id %v (%T)", v, v)
	}
	return nil
}
