package types

// Credentials are a user's decrypted portal login details.
type Credentials struct {
	Email    string
	Password string
}

// Empty reports whether no usable credentials are present.
func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}
