package payload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thornfield-systems/behavior-guard/internal/payload"
)

func TestGetString(t *testing.T) {
	p := payload.New(map[string]interface{}{"a": "hello", "b": nil, "c": 42.0})

	s, ok := p.GetString("a")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = p.GetString("b")
	assert.False(t, ok)

	_, ok = p.GetString("missing")
	assert.False(t, ok)

	_, ok = p.GetString("c")
	assert.False(t, ok, "a number is not a string")
}

func TestGetDouble(t *testing.T) {
	cases := []struct {
		name string
		vals map[string]interface{}
		key  string
		def  float64
		want float64
	}{
		{"native float", map[string]interface{}{"v": 3.14}, "v", 0, 3.14},
		{"native int", map[string]interface{}{"v": 42}, "v", 0, 42},
		{"numeric string", map[string]interface{}{"v": "3.14"}, "v", 0, 3.14},
		{"missing falls back", map[string]interface{}{}, "v", 9, 9},
		{"null falls back", map[string]interface{}{"v": nil}, "v", 9, 9},
		{"unparseable falls back", map[string]interface{}{"v": "not-a-number"}, "v", 9, 9},
		{"bool falls back", map[string]interface{}{"v": true}, "v", 9, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payload.New(tc.vals).GetDouble(tc.key, tc.def)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	cases := []struct {
		name string
		vals map[string]interface{}
		want int
	}{
		{"native float truncates", map[string]interface{}{"v": 42.9}, 42},
		{"int string", map[string]interface{}{"v": "17"}, 17},
		{"float string", map[string]interface{}{"v": "17.9"}, 17},
		{"missing falls back", map[string]interface{}{}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payload.New(tc.vals).GetInt("v", 5)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetBool(t *testing.T) {
	cases := []struct {
		name string
		vals map[string]interface{}
		want bool
	}{
		{"native true", map[string]interface{}{"v": true}, true},
		{"string true", map[string]interface{}{"v": "true"}, true},
		{"string 1", map[string]interface{}{"v": "1"}, true},
		{"string false", map[string]interface{}{"v": "false"}, false},
		{"string 0", map[string]interface{}{"v": "0"}, false},
		{"missing falls back to default true", map[string]interface{}{}, true},
		{"unparseable falls back to default true", map[string]interface{}{"v": "maybe"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := payload.New(tc.vals).GetBool("v", true)
			assert.Equal(t, tc.want, got)
		})
	}
}
