package imagepipe

import "fmt"

// Selection is one flattened garment instruction for the compositor.
// Group is null for categories without sub-groups.
type Selection struct {
	Category string  `json:"category"`
	Group    *string `json:"group"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
}

// RemoveBackgroundRequest represents the background removal request
type RemoveBackgroundRequest struct {
	UserImage string `json:"userImage"` // data URI of the normalized photo
}

// ComposeRequest represents the garment compositing request
type ComposeRequest struct {
	Selections []Selection `json:"selections"`
	UserImage  string      `json:"userImage"`
}

// ImageResponse is the success payload of both endpoints
type ImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ErrorResponse represents an error response from the pipeline API
type ErrorResponse struct {
	Message string `json:"error"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("image pipeline error: %s", e.Message)
}
