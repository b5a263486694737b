package handler

// registerRequest binds both multipart/urlencoded forms and JSON bodies.
// Files are read separately from the avatar and coverImage form fields.
type registerRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"notblank"`
	Email    string `json:"email"    form:"email"    validate:"notblank"`
	Username string `json:"username" form:"username" validate:"notblank"`
	Password string `json:"password" form:"password" validate:"notblank"`
}

const (
	formFieldAvatar     = "avatar"
	formFieldCoverImage = "coverImage"

	msgUserRegistered = "User registered successfully"
)
