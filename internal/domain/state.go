package domain

import (
	"fmt"
	"maps"
	"reflect"
	"time"
)

// Key represents a type-safe generic key for accessing values in State.
// The type parameter T ensures compile-time type safety when getting and
// setting values, eliminating runtime type assertions at call sites.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and type.
// It is provided for defining keys outside the domain package.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Predefined state keys used throughout a decision run.
// Each key is strongly typed to ensure type safety at compile time.
var (
	// KeyAssessment stores the assessment bundle under review.
	KeyAssessment = Key[*AssessmentInput]{"assessment"}

	// KeyWeights stores the component weight configuration for the run.
	KeyWeights = Key[WeightConfig]{"weights"}

	// KeyAggregate stores the automated path's aggregation result.
	KeyAggregate = Key[*AggregateScore]{"aggregate"}

	// KeyVotes stores the committee votes collected for the session.
	KeyVotes = Key[[]Vote]{"votes"}

	// KeySession stores the committee voting session.
	KeySession = Key[*VotingSession]{"session"}

	// KeyTally stores the voting result produced by the tally.
	KeyTally = Key[*VotingResult]{"tally"}

	// KeyOutcome stores the final decision outcome.
	KeyOutcome = Key[*DecisionOutcome]{"outcome"}

	// Request context keys for tracking metadata across a resolve call.

	// KeyRequestID stores a unique identifier for this decision request,
	// useful for tracing and correlation.
	KeyRequestID = Key[string]{"request.id"}

	// KeyApplicationID stores the application under review.
	KeyApplicationID = Key[string]{"request.application_id"}

	// KeyReviewPath stores the route chosen for the request
	// ("automated" or "committee").
	KeyReviewPath = Key[ReviewPath]{"request.path"}
)

// deepCopyValue creates a deep copy of a value so State stays immutable.
// It handles slices, maps, and pointers that would otherwise allow
// external mutation of stored data.
func deepCopyValue(value any) any {
	if value == nil {
		return nil
	}

	// time.Time is immutable and can be returned directly.
	if val, ok := value.(time.Time); ok {
		return val
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice:
		newSlice := reflect.MakeSlice(v.Type(), v.Len(), v.Cap())
		for i := 0; i < v.Len(); i++ {
			newSlice.Index(i).Set(reflect.ValueOf(deepCopyValue(v.Index(i).Interface())))
		}
		return newSlice.Interface()

	case reflect.Map:
		newMap := reflect.MakeMap(v.Type())
		for _, key := range v.MapKeys() {
			copiedKey := deepCopyValue(key.Interface())
			copiedValue := deepCopyValue(v.MapIndex(key).Interface())
			newMap.SetMapIndex(reflect.ValueOf(copiedKey), reflect.ValueOf(copiedValue))
		}
		return newMap.Interface()

	case reflect.Ptr:
		if v.IsNil() {
			return v.Interface()
		}
		newPtr := reflect.New(v.Elem().Type())
		newPtr.Elem().Set(reflect.ValueOf(deepCopyValue(v.Elem().Interface())))
		return newPtr.Interface()

	case reflect.Struct:
		// Deep copies exported fields; unexported fields are skipped.
		newStruct := reflect.New(v.Type()).Elem()
		for i := 0; i < v.NumField(); i++ {
			if newStruct.Field(i).CanSet() {
				newStruct.Field(i).Set(reflect.ValueOf(deepCopyValue(v.Field(i).Interface())))
			}
		}
		return newStruct.Interface()

	default:
		// Primitive types are copied by value.
		return value
	}
}

// State is an immutable collection of decision-run data that flows
// between units. It uses copy-on-write semantics, so a State can be
// shared across goroutines without locking and a unit can never mutate
// its caller's view.
type State struct {
	// data holds the key-value pairs that make up the state.
	// It is unexported to maintain immutability guarantees.
	data map[string]any
}

// NewState creates a new empty State.
func NewState() State {
	return State{data: make(map[string]any)}
}

// Get retrieves a value from the State with compile-time type safety.
// It returns the value and a boolean indicating whether the key exists
// and holds a value of the correct type. The returned value is a deep
// copy to maintain immutability.
//
// Example:
//
//	votes, ok := Get(state, KeyVotes)
//	if !ok {
//	    // handle missing value
//	}
func Get[T any](s State, key Key[T]) (T, bool) {
	var zero T
	value, exists := s.data[key.name]
	if !exists {
		return zero, false
	}

	copied := deepCopyValue(value)
	val, ok := copied.(T)
	return val, ok
}

// With creates a new State with the specified key-value pair added or
// updated, leaving the original unchanged.
//
// Example:
//
//	next := With(state, KeySession, session)
func With[T any](s State, key Key[T], value T) State {
	newData := maps.Clone(s.data)
	newData[key.name] = deepCopyValue(value)
	return State{data: newData}
}

// WithMultiple creates a new State with multiple key-value pairs added or
// updated. It is more efficient than chaining With calls because it
// performs a single clone.
func (s State) WithMultiple(updates map[string]any) State {
	newData := maps.Clone(s.data)
	for k, v := range updates {
		newData[k] = deepCopyValue(v)
	}
	return State{data: newData}
}

// Keys returns all keys present in the State. The returned slice is safe
// to modify.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// String returns a string representation of the State for debugging.
func (s State) String() string {
	return fmt.Sprintf("State%v", s.data)
}

// RequestContext carries metadata about the current decision request
// through the State, giving middleware and observability consistent
// access to request identity.
type RequestContext struct {
	// RequestID is a unique identifier for this decision request.
	RequestID string

	// ApplicationID is the application under review.
	ApplicationID string

	// Path is the review route chosen for the request.
	Path ReviewPath
}

// WithRequestContext creates a new State with request metadata included.
// Call it at the start of a resolve call.
func (s State) WithRequestContext(rc RequestContext) State {
	return s.WithMultiple(map[string]any{
		KeyRequestID.name:     rc.RequestID,
		KeyApplicationID.name: rc.ApplicationID,
		KeyReviewPath.name:    rc.Path,
	})
}

// GetRequestContext extracts request metadata from the State. It returns
// false if any required field is absent.
func (s State) GetRequestContext() (RequestContext, bool) {
	requestID, ok1 := Get(s, KeyRequestID)
	applicationID, ok2 := Get(s, KeyApplicationID)
	path, ok3 := Get(s, KeyReviewPath)

	if !ok1 || !ok2 || !ok3 {
		return RequestContext{}, false
	}

	return RequestContext{
		RequestID:     requestID,
		ApplicationID: applicationID,
		Path:          path,
	}, true
}
