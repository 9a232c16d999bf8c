package command

// Variant classifies a feedback line for rendering, mirroring the original
// terminal's message variants.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantDanger  Variant = "danger"
	VariantLight   Variant = "light"
)

// FeedbackLimit is the ring-buffer capacity of the terminal feedback buffer.
const FeedbackLimit = 20

// Entry is one user-facing feedback line.
type Entry struct {
	Text    string
	Variant Variant
}

// Feedback is a bounded append-only buffer of feedback lines. Overflow
// silently drops the oldest entries. It is the interpreter's own output
// surface and is unrelated to room chat history.
type Feedback struct {
	entries []Entry
	pushed  int
}

// Push appends a line, evicting the oldest beyond FeedbackLimit.
func (f *Feedback) Push(text string, variant Variant) {
	f.entries = append(f.entries, Entry{Text: text, Variant: variant})
	if len(f.entries) > FeedbackLimit {
		f.entries = f.entries[len(f.entries)-FeedbackLimit:]
	}
	f.pushed++
}

// Entries returns a copy of the buffered lines, oldest first.
func (f *Feedback) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Pushed returns the total number of lines ever pushed. Renderers diff it
// against their own high-water mark to print only lines they have not shown
// yet, without consuming the buffer.
func (f *Feedback) Pushed() int {
	return f.pushed
}

// Clear empties the buffer. The push counter is untouched so renderers do not
// mistake the next line for already-shown history.
func (f *Feedback) Clear() {
	f.entries = nil
}
