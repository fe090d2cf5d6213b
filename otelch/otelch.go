// Package otelch holds the OpenTelemetry attribute keys this driver sets
// on a query's client span, kept separate from ch so the attribute names
// are documented and reusable in one place.
package otelch

import "go.opentelemetry.io/otel/attribute"

const (
	keyProtocolVersion  = "ch.protocol_version"
	keyQuotaKey         = "ch.quota_key"
	keyQueryID          = "ch.query_id"
	keyBlocksSent       = "ch.blocks_sent"
	keyBlocksReceived   = "ch.blocks_received"
	keyRowsReceived     = "ch.rows_received"
	keyColumnsReceived  = "ch.columns_received"
	keyRows             = "ch.rows"
	keyBytes            = "ch.bytes"
	keyErrorCode        = "ch.error_code"
	keyErrorName        = "ch.error_name"
)

func ProtocolVersion(v int) attribute.KeyValue { return attribute.Int(keyProtocolVersion, v) }
func QuotaKey(v string) attribute.KeyValue     { return attribute.String(keyQuotaKey, v) }
func QueryID(v string) attribute.KeyValue      { return attribute.String(keyQueryID, v) }

func BlocksSent(v int) attribute.KeyValue      { return attribute.Int(keyBlocksSent, v) }
func BlocksReceived(v int) attribute.KeyValue  { return attribute.Int(keyBlocksReceived, v) }
func RowsReceived(v int) attribute.KeyValue    { return attribute.Int(keyRowsReceived, v) }
func ColumnsReceived(v int) attribute.KeyValue { return attribute.Int(keyColumnsReceived, v) }

func Rows(v int) attribute.KeyValue  { return attribute.Int(keyRows, v) }
func Bytes(v int) attribute.KeyValue { return attribute.Int(keyBytes, v) }

func ErrorCode(v int) attribute.KeyValue  { return attribute.Int(keyErrorCode, v) }
func ErrorName(v string) attribute.KeyValue { return attribute.String(keyErrorName, v) }
