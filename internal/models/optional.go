package models

import (
	"bytes"
	"encoding/json"
)

// Optional 可选字段包装，用于区分“未提供”“显式 null”与“提供了值”
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some 构造已提供的值
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

// Present 字段是否出现在请求中（包括显式 null）
func (o Optional[T]) Present() bool {
	return o.Set
}

// Get 返回值及是否为非空的有效值
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set && !o.Null
}

// UnmarshalJSON 字段出现即视为已提供，null 单独标记
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON 未提供或 null 时输出 null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
