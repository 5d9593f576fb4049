package dto

type OwnerQuery struct {
	Username string `query:"username" validate:"required"`
}

type DocumentQuery struct {
	Username string `query:"username" validate:"required"`
	File     string `query:"file" validate:"required"`
}

type UploadFileResponse struct {
	Status string `json:"status"`
}

type CheckFilesResponse struct {
	FilesExist bool `json:"filesExist"`
}

type FetchFilesResponse struct {
	Files []string `json:"files"`
}
