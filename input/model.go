package input

import (
	"path/filepath"
)

// InputFile is one discovered data file, usually a transcript
// hypothesis or an ASR output inside a call directory.
type InputFile struct {
	CallId    string
	Filename  string
	FileExt   string
	Directory string
}

func (i *InputFile) FilePath() string {
	return filepath.Join(i.Directory, i.Filename)
}
