package entity

// Platform is a streaming service that watch-list items belong to.
type Platform struct {
	Base
	Name    string `db:"name"`
	About   string `db:"about"`
	Website string `db:"website"`
}
