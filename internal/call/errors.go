package call

import (
	"encoding/json"
	"fmt"
	"strings"

	xerrors "prepwise-service/internal/pkg/errors"
)

const meetingEndedPhrase = "meeting has ended"

// Describe extracts a human-readable message from an error of unknown shape:
// Go errors, strings, raw JSON, decoded JSON objects, or arbitrary values.
// It never panics.
func Describe(v any) (msg string) {
	defer func() {
		if recover() != nil {
			msg = "Unknown error"
		}
	}()

	switch e := v.(type) {
	case nil:
		return "Unknown error"
	case error:
		return e.Error()
	case string:
		return e
	case json.RawMessage:
		return describeJSON(e)
	case []byte:
		return describeJSON(e)
	case map[string]any:
		return describeObject(e)
	case fmt.Stringer:
		return e.String()
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return describeJSON(raw)
}

// IsMeetingEnded reports whether msg is the remote "meeting has ended" teardown.
// This is a substring heuristic on third-party text, not a documented code.
func IsMeetingEnded(msg string) bool {
	return strings.Contains(strings.ToLower(msg), meetingEndedPhrase)
}

// Classify normalizes a voice SDK error into a remote teardown or a transport error.
func Classify(v any) *xerrors.Error {
	msg := Describe(v)
	if IsMeetingEnded(msg) {
		return xerrors.New(xerrors.KindRemoteTeardown, msg)
	}
	if err, ok := v.(error); ok {
		return xerrors.WrapKind(xerrors.KindTransport, msg, err)
	}
	return xerrors.New(xerrors.KindTransport, msg)
}

func describeJSON(raw []byte) string {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return strings.TrimSpace(string(raw))
	}
	switch d := decoded.(type) {
	case nil:
		return "Unknown error"
	case map[string]any:
		return describeObject(d)
	case string:
		return d
	}
	return strings.TrimSpace(string(raw))
}

func describeObject(obj map[string]any) string {
	if s := nonEmptyString(obj["message"]); s != "" {
		return s
	}
	if s := nonEmptyString(obj["error"]); s != "" {
		return s
	}
	for _, key := range []string{"error", "data"} {
		if nested, ok := obj[key].(map[string]any); ok {
			if s := nonEmptyString(nested["message"]); s != "" {
				return s
			}
			if s := nonEmptyString(nested["error"]); s != "" {
				return s
			}
		}
	}
	if status, ok := asInt(obj["status"]); ok {
		msg := fmt.Sprintf("HTTP %d", status)
		if text := nonEmptyString(obj["statusText"]); text != "" {
			msg += " " + text
		}
		return msg
	}
	if len(obj) == 0 {
		return "Unknown error object"
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return "Unknown error"
	}
	return string(raw)
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
