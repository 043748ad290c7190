package domain

// SourceText is memoir text recovered from an ingest source file.
type SourceText struct {
	// Title is the title found in the file, or one derived from its name.
	Title string

	// Text is the plain memoir text handed to the segmenter.
	Text string

	// Format names the normaliser that produced the text.
	Format string
}
