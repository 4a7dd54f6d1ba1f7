package directive

// Typo misspells a directive argument.
//
//ddl:entity tabel=typos
type Typo struct {
	ID int64
}
