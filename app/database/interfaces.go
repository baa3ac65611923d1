package database

type SavePolicy int

const (
	// SkipDuplicates inserts unseen keys and leaves existing rows untouched.
	SkipDuplicates SavePolicy = iota
	// ClearThenInsert removes the owner's rows before inserting.
	ClearThenInsert
	// UpdateOrInsert overwrites mutable fields of existing rows.
	UpdateOrInsert
)

func (p SavePolicy) String() string {
	switch p {
	case ClearThenInsert:
		return "clear-then-insert"
	case UpdateOrInsert:
		return "update-or-insert"
	default:
		return "skip-duplicates"
	}
}

type SaveResult struct {
	Saved   int
	Updated int
	Skipped int
	Cleared int64
}

type PostRepository interface {
	Exists(ownerID, postID int64) (bool, error)
	Insert(post Post) error
	Update(post Post) error
	DeleteByOwner(ownerID int64) (int64, error)
	Save(ownerID int64, posts []Post, policy SavePolicy) (SaveResult, error)

	GetByOwner(ownerID int64, limit int) ([]Post, error)
	Count(ownerID int64) (int, error)
	GetOwnerStats() ([]OwnerStats, error)
}

type CheckCacheRepository interface {
	HasEntries() (bool, error)
	Clear() error
	Insert(entry CheckEntry) error
	List() ([]CheckEntry, error)
}
