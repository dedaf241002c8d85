package constants

import "os"

// Права на каталоги.
const (
	// DirPermStandard — владелец rwx, группа r-x.
	DirPermStandard os.FileMode = 0o750
)
