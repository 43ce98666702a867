package logger

import (
	"fmt"
	"strconv"
	"time"
)

// CorrelationIDFieldKey is the field key used for correlation IDs in log entries.
const CorrelationIDFieldKey = "correlation_id"

// StringField returns a LogField for a string value.
func StringField(key, value string) LogField {
	return LogField{Key: key, Value: value}
}

// IntField returns a LogField for an integer value.
func IntField(key string, value int) LogField {
	return LogField{Key: key, Value: strconv.Itoa(value)}
}

// Int64Field returns a LogField for an int64 value.
func Int64Field(key string, value int64) LogField {
	return LogField{Key: key, Value: strconv.FormatInt(value, 10)}
}

// Float64Field returns a LogField for a float64 value.
func Float64Field(key string, value float64) LogField {
	return LogField{Key: key, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

// BoolField returns a LogField for a boolean value.
func BoolField(key string, value bool) LogField {
	return LogField{Key: key, Value: strconv.FormatBool(value)}
}

// DurationField returns a LogField for a time.Duration value.
func DurationField(key string, value time.Duration) LogField {
	return LogField{Key: key, Value: value.String()}
}

// TimeField returns a LogField for a time.Time value formatted as RFC3339.
func TimeField(key string, value time.Time) LogField {
	return LogField{Key: key, Value: value.Format(time.RFC3339)}
}

// ErrorField returns a LogField for an error value.
func ErrorField(err error) LogField {
	if err == nil {
		return LogField{Key: "error", Value: "<nil>"}
	}
	return LogField{Key: "error", Value: err.Error()}
}

// Field creates a log field for less common types.
func Field[T any](key string, value T) LogField {
	switch v := any(value).(type) {
	case string:
		return StringField(key, v)
	case int:
		return IntField(key, v)
	case int64:
		return Int64Field(key, v)
	case float64:
		return Float64Field(key, v)
	case bool:
		return BoolField(key, v)
	case time.Duration:
		return DurationField(key, v)
	case time.Time:
		return TimeField(key, v)
	case error:
		return LogField{Key: key, Value: v.Error()}
	case fmt.Stringer:
		return LogField{Key: key, Value: v.String()}
	default:
		return LogField{Key: key, Value: fmt.Sprintf("%v", v)}
	}
}

// CorrelationIDField returns a LogField for a correlation ID.
func CorrelationIDField(id string) LogField {
	return StringField(CorrelationIDFieldKey, id)
}

// HTTPMethodField returns a LogField for an HTTP method.
func HTTPMethodField(method string) LogField {
	return StringField("http_method", method)
}

// HTTPPathField returns a LogField for an HTTP path.
func HTTPPathField(path string) LogField {
	return StringField("http_path", path)
}

// HTTPStatusField returns a LogField for an HTTP status code.
func HTTPStatusField(status int) LogField {
	return IntField("http_status", status)
}

// ClientIPField returns a LogField for a client IP address.
func ClientIPField(ip string) LogField {
	return StringField("client_ip", ip)
}

// SessionIDField returns a LogField for a chat session identifier.
func SessionIDField(id string) LogField {
	return StringField("session_id", id)
}

// IntentField returns a LogField for a classified dialogue intent.
func IntentField(intent string) LogField {
	return StringField("intent", intent)
}
