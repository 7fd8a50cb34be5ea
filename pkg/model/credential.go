package model

// Credential is the (token, identity) pair establishing an authenticated
// operator session. A credential is either whole or absent: a pair with an
// empty token or identity is treated as no credential at all.
type Credential struct {
	Token    string `yaml:"token" json:"token"`
	Identity string `yaml:"identity" json:"username"`
}

// Valid reports whether both halves of the credential are present.
func (c Credential) Valid() bool {
	return c.Token != "" && c.Identity != ""
}
