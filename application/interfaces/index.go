package interfaces

import (
	"net/http"
)

// ApplicationContext carries everything a controller needs about the current
// request. Identity and role always travel inside this object rather than in
// package-level state.
type ApplicationContext[T interface{}] struct {
	Body     *T
	Ctx      interface{}
	Keys     map[string]any
	Header   http.Header
	DeviceID string
}

func (ac *ApplicationContext[T]) GetContextData(key string) any {
	if ac.Keys == nil {
		return nil
	}
	return ac.Keys[key]
}

func (ac *ApplicationContext[T]) SetContextData(key string, value any) {
	if ac.Keys == nil {
		ac.Keys = map[string]any{}
	}
	ac.Keys[key] = value
}

func (ac *ApplicationContext[T]) GetStringContextData(key string) string {
	value, ok := ac.GetContextData(key).(string)
	if !ok {
		return ""
	}
	return value
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	if ac.Header == nil {
		return nil
	}
	value := ac.Header.Get(key)
	return &value
}
