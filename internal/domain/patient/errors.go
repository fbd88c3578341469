package patient

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
