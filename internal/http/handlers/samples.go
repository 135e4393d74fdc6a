package handlers

import (
	"net/http"
	"strconv"
)

type sampleImagesResponse struct {
	Success      bool              `json:"success"`
	SampleImages map[string]string `json:"sampleImages"`
	Count        int               `json:"count"`
}

func (a *App) SampleImages(w http.ResponseWriter, r *http.Request) {
	a.warm(r)
	snap := a.Samples.Snapshot()
	images := make(map[string]string, len(snap))
	for id, v := range snap {
		images[strconv.Itoa(id)] = v
	}
	a.json(w, http.StatusOK, sampleImagesResponse{Success: true, SampleImages: images, Count: len(images)})
}
