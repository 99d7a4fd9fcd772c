package statsync

import "fmt"

// UnknownTeamError means a player's mapped team has no row in the team table.
// Teams are seeded ahead of time, so this halts the run.
type UnknownTeamError struct {
	PlayerName string
	TeamName   string
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("team %q for player %q not found", e.TeamName, e.PlayerName)
}

// DatastoreError wraps a failed read or write against the store
type DatastoreError struct {
	Op  string
	Err error
}

func (e *DatastoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatastoreError) Unwrap() error {
	return e.Err
}

func datastoreErr(op string, err error) error {
	return &DatastoreError{Op: op, Err: err}
}
