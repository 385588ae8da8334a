package deck

// SlideUnit is one logical slide's worth of source text.
//
// Ordinal is the 1-based position of the segment in the original delimiter
// split. Segments that are empty after trimming are dropped but the
// surviving ordinals are NOT renumbered, so downstream consumers see the
// same numbering across the parsed and formatted snapshots.
type SlideUnit struct {
	Ordinal int    `json:"slide_number"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// DecidedSlide is the fully resolved rendering instruction for one slide:
// which template to use and what text goes into which placeholder.
// ContentMapping keys are placeholder names; a key absent from the mapping
// leaves that placeholder at its template-default text.
type DecidedSlide struct {
	Ordinal        int               `json:"slide_number"`
	TemplateName   string            `json:"template_name"`
	ContentMapping map[string]string `json:"content_mapping"`
}

// RunResult is the caller-facing outcome of one pipeline run. On failure
// OutputFile is empty and IntermediateFiles still lists every snapshot
// written before the failure, for post-mortem inspection.
type RunResult struct {
	Success           bool     `json:"success"`
	OutputFile        string   `json:"output_file,omitempty"`
	ErrorMessage      string   `json:"error_message,omitempty"`
	IntermediateFiles []string `json:"intermediate_files"`
}
