package types

// ParseConfig holds settings for the parse pass.
type ParseConfig struct {
	// InputDir is the directory scanned for pep-NNNN.txt / pep-NNNN.rst files.
	InputDir string `json:"input_dir" yaml:"input_dir"`
}

// EmitConfig holds settings for the emit pass.
type EmitConfig struct {
	// OutputDir is the directory the Markdown files are written to. It is
	// fully regenerated on each run.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// IndexConfig holds settings for the cross-reference index.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups the stage configurations.
type PipelineConfig struct {
	Parse ParseConfig `json:"parse" yaml:"parse"`
	Emit  EmitConfig  `json:"emit" yaml:"emit"`
	Index IndexConfig `json:"index" yaml:"index"`
}
