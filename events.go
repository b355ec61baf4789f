package datamapper

// Listener receives mutable events around Decode and Encode calls. The
// mapper invokes listeners at exactly these four points and nowhere else;
// nested-object recursion does not re-fire them.
type Listener interface {
	BeforeDecode(*BeforeDecodeEvent)
	AfterDecode(*AfterDecodeEvent)
	BeforeEncode(*BeforeEncodeEvent)
	AfterEncode(*AfterEncodeEvent)
}

// BeforeDecodeEvent fires before denormalization. Listeners may replace
// Payload; the engine then consumes the replacement.
type BeforeDecodeEvent struct {
	Payload Payload
	Target  any
}

// AfterDecodeEvent fires after denormalization, success or failure.
// Listeners may mutate the decoded Target in place or suppress a pending
// failure by clearing Err.
type AfterDecodeEvent struct {
	Payload Payload
	Target  any
	Err     error
}

// BeforeEncodeEvent fires before normalization. Listeners may replace
// Source with another struct value.
type BeforeEncodeEvent struct {
	Source any
}

// AfterEncodeEvent fires after normalization. Listeners may replace the
// Result payload or suppress a pending failure by clearing Err.
type AfterEncodeEvent struct {
	Source any
	Result Payload
	Err    error
}

// NoOpListener implements Listener with empty hooks; embed it to override
// only the points of interest.
type NoOpListener struct{}

func (NoOpListener) BeforeDecode(*BeforeDecodeEvent) {}
func (NoOpListener) AfterDecode(*AfterDecodeEvent)   {}
func (NoOpListener) BeforeEncode(*BeforeEncodeEvent) {}
func (NoOpListener) AfterEncode(*AfterEncodeEvent)   {}
