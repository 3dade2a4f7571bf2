package exporting

// Format represents the output format of an export job
type Format string

const (
	FormatPNG       Format = "PNG"        // Raster bitmap at print zoom
	FormatPDF       Format = "PDF"        // Raster page imported into a PDF
	FormatVectorPDF Format = "VECTOR_PDF" // SVG printed to PDF through headless Chrome
)

// IsValid checks if the Format is a valid value
func (f Format) IsValid() bool {
	switch f {
	case FormatPNG, FormatPDF, FormatVectorPDF:
		return true
	}
	return false
}

// String returns the string representation of Format
func (f Format) String() string {
	return string(f)
}

// ContentType returns the MIME type of the artifact this format produces
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPDF, FormatVectorPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension for this format
func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatPDF, FormatVectorPDF:
		return "pdf"
	default:
		return "bin"
	}
}

// AllFormats returns all valid Format values
func AllFormats() []Format {
	return []Format{FormatPNG, FormatPDF, FormatVectorPDF}
}

// JobStatus represents the status of an export job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusRendering || target == JobStatusFailed
	case JobStatusRendering:
		return target == JobStatusCompleted || target == JobStatusFailed
	case JobStatusCompleted, JobStatusFailed:
		return false
	}
	return false
}
