package closedloop

// TraceCapacity is the number of samples captured per recording session.
const TraceCapacity = 100

// Sample is one captured point of the controlled variable.
type Sample struct {
	ElapsedMS int64
	Value     float64
}

// TraceSink receives a completed trace, in capture order, synchronously
// from the Update call that filled the buffer.
type TraceSink func(samples []Sample)

// recorder is the bounded sample buffer owned by a Controller. The
// buffer is reused across recording sessions; it is cleared on rearm,
// not on emission.
type recorder struct {
	samples []Sample
	armed   bool
}

func (r *recorder) rearm() {
	if r.samples == nil {
		r.samples = make([]Sample, 0, TraceCapacity)
	}
	r.samples = r.samples[:0]
	r.armed = true
}

// observe appends one sample while armed. The append that reaches
// capacity disarms the recorder and returns the full trace; every
// other call returns nil.
func (r *recorder) observe(elapsedMS int64, value float64) []Sample {
	if !r.armed {
		return nil
	}
	r.samples = append(r.samples, Sample{ElapsedMS: elapsedMS, Value: value})
	if len(r.samples) < TraceCapacity {
		return nil
	}
	r.armed = false
	return r.samples
}
