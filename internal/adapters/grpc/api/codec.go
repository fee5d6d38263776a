// Package api は gRPC サービスのメッセージ型とサービス定義を提供します。
//
// メッセージは JSON コーデック (content-subtype "json") で送受信します。
// proto.Message の値は protojson で、それ以外は encoding/json でエンコードします。
package api

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName は JSON コーデックの content-subtype です。
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec は gRPC の JSON コーデックです。
type Codec struct{}

// Marshal は値を JSON にエンコードします。
func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

// Unmarshal は JSON を値にデコードします。
func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		if len(data) == 0 {
			return nil
		}
		return protojson.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Name はコーデック名を返します。
func (Codec) Name() string {
	return CodecName
}
