package model

type UserID string // login identifier e.g. bob@zimbabwe

// Session is the in-memory record of a signed-on user.
type Session struct {
	UserID    UserID
	Token     string
	Partition string
	Row       string
}

// Credentials is what the entity store hands back for a valid login.
type Credentials struct {
	Token     string `json:"token"`
	Partition string `json:"DataPartition"`
	Row       string `json:"DataRow"`
}

type CreateUserParams struct {
	UserID    UserID `json:"userId"`
	Password  string `json:"password"`
	Partition string `json:"partition"`
	Row       string `json:"row"`
}

type SignOnParams struct {
	Password string `json:"Password"`
}
