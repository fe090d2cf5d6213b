package proto

// FeatureFlag is a protocol revision threshold: a field or sub-structure
// gated by FeatureX is present only when the negotiated revision (the
// minimum of client and server revision, per the handshake) is at least
// FeatureX's value. Revision-gated framing never branches on anything but
// this single integer (§7: "single integer parameter threaded through
// readers/writers; do not branch on global state").
type FeatureFlag int

// In reports whether revision negotiates this feature on.
func (f FeatureFlag) In(revision int) bool { return revision >= int(f) }

// Revision thresholds, modeled after the public ClickHouse native protocol's
// own DBMS_MIN_REVISION_WITH_* constants. Exact values track the upstream
// server's historical revision numbering; this driver does not need to
// reproduce every release's exact cutover, only the relative ordering
// between features, since a session always runs at one negotiated revision
// for its whole lifetime.
const (
	FeatureClientInfo                     FeatureFlag = 54032
	FeatureServerTimezone                  FeatureFlag = 54058
	FeatureQuotaKeyInClientInfo            FeatureFlag = 54060
	FeatureTableColumns                    FeatureFlag = 54226
	FeatureDateTimeTimezone                FeatureFlag = 54337
	FeatureServerDisplayName               FeatureFlag = 54372
	FeatureVersionPatch                    FeatureFlag = 54401
	FeatureServerLogs                      FeatureFlag = 54406
	FeatureTempTables                       FeatureFlag = 54423
	FeatureTotalBytes                      FeatureFlag = 54429
	FeatureSettingsSerializedAsStrings     FeatureFlag = 54429
	FeatureClientWriteInfo                 FeatureFlag = 54420
	FeatureDistributedDepth                FeatureFlag = 54448
	FeatureColumnsInDefineColumns          FeatureFlag = 54454
	FeatureInterServerSecret               FeatureFlag = 54441
	FeatureOpenTelemetry                   FeatureFlag = 54442
	FeatureParameters                      FeatureFlag = 54459
)
