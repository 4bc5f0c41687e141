package layout

import "fmt"

// Warning describes a non-fatal issue encountered while reconstructing a
// page. Warnings never abort the pipeline; the affected detail is simply
// omitted from the output.
type Warning struct {
	// Stage names the pipeline stage that produced the warning.
	Stage string

	// Message describes what was skipped and why.
	Message string
}

// String returns the warning as "stage: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

func warnf(stage, format string, args ...any) Warning {
	return Warning{Stage: stage, Message: fmt.Sprintf(format, args...)}
}
