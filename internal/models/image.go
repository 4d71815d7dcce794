package models

import "time"

// ImageAsset describes a stored image. FileName is the generated storage key;
// OriginalName is the human-facing name the file was uploaded under.
type ImageAsset struct {
	FileName      string    `json:"fileName"`
	OriginalName  string    `json:"originalName"`
	DirectoryName string    `json:"directoryName"`
	FileSize      int64     `json:"fileSize"`
	ContentType   string    `json:"contentType"`
	Description   string    `json:"description,omitempty"`
	LastModified  time.Time `json:"lastModified"`
	ETag          string    `json:"etag,omitempty"`
	ImageWidth    int       `json:"imageWidth"`
	ImageHeight   int       `json:"imageHeight"`
	ImageFormat   string    `json:"imageFormat"`
}

// ImageInfo holds the intrinsic properties derived by decoding an upload.
type ImageInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Mode     string `json:"mode"`
	HasAlpha bool   `json:"hasAlpha"`
}

// DirectoryInfo summarizes one logical image directory.
type DirectoryInfo struct {
	Name         string    `json:"name"`
	ImageCount   int       `json:"imageCount"`
	TotalSize    int64     `json:"totalSize"`
	LastModified time.Time `json:"lastModified"`
}
