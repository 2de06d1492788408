package translate

// ProgressReporter emits one notification per 10% boundary crossed while
// processing (entry, language) units. Each boundary (0, 10, ..., 100) is
// reported exactly once, on first crossing.
type ProgressReporter struct {
	total   int
	emitted [11]bool
	notify  func(percent int)
}

// NewProgressReporter builds a reporter over total units. A zero total
// reports 100% immediately since there is nothing to wait for.
func NewProgressReporter(total int, notify func(percent int)) *ProgressReporter {
	r := &ProgressReporter{total: total, notify: notify}
	if total <= 0 {
		for i := range r.emitted {
			r.emitted[i] = true
		}
		if notify != nil {
			notify(100)
		}
	}
	return r
}

// Report records that processed units are done and emits every 10%
// boundary newly crossed.
func (r *ProgressReporter) Report(processed int) {
	if r.total <= 0 {
		return
	}
	percent := 100 * processed / r.total
	if percent > 100 {
		percent = 100
	}
	r.emitUpTo(percent)
}

func (r *ProgressReporter) emitUpTo(percent int) {
	for boundary := 0; boundary <= percent; boundary += 10 {
		idx := boundary / 10
		if r.emitted[idx] {
			continue
		}
		r.emitted[idx] = true
		if r.notify != nil {
			r.notify(boundary)
		}
	}
}
