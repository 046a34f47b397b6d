package repository

import "github.com/alexanderramin/repforge/internal/db"

// Repos bundles every repository over one connection or transaction.
type Repos struct {
	Programs     ProgramRepo
	Baselines    BaselineRepo
	Progressions ProgressionRepo
	Sessions     WorkoutSessionRepo
	SetLogs      SetLogRepo
	PainMemory   PainMemoryRepo
	Volume       VolumeRepo
}

func NewSQLiteRepos(conn db.DBTX) Repos {
	return Repos{
		Programs:     NewSQLiteProgramRepo(conn),
		Baselines:    NewSQLiteBaselineRepo(conn),
		Progressions: NewSQLiteProgressionRepo(conn),
		Sessions:     NewSQLiteWorkoutSessionRepo(conn),
		SetLogs:      NewSQLiteSetLogRepo(conn),
		PainMemory:   NewSQLitePainMemoryRepo(conn),
		Volume:       NewSQLiteVolumeRepo(conn),
	}
}
