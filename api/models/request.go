package models

// ChatForm is the body of the chat box submission.
type ChatForm struct {
	// Question is the free-text question about the uploaded dataset
	Question string `schema:"question"`
}
