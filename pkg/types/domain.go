package types

// Model is an MNN model file discovered in the models directory.
type Model struct {
	// Stable identifier (file name without extension).
	// example: mobilenet_v2
	ID string `json:"id" example:"mobilenet_v2"`
	// File name on disk.
	// example: mobilenet_v2.mnn
	Name string `json:"name" example:"mobilenet_v2.mnn"`
	// Absolute path to the model file.
	// example: /home/user/models/mobilenet_v2.mnn
	Path string `json:"path" example:"/home/user/models/mobilenet_v2.mnn"`
	// File size in bytes.
	// example: 14145632
	SizeBytes int64 `json:"size_bytes" example:"14145632"`
}
