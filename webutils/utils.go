package webutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	io.Copy(w, in)
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, err)
	} else {
		WriteResult(w, res)
	}
}

func WriteJsonFile(w http.ResponseWriter, v interface{}, fileName string) {
	if data, err := json.MarshalIndent(v, "", "  "); err != nil {
		WriteError(w, errors.Wrapf(err, "Failed to marshal"))
	} else {
		WriteFile(w, bytes.NewReader(data), fileName+".json")
	}
}

// ReadUploadedFile returns the raw contents of a multipart form file field.
func ReadUploadedFile(r *http.Request, formFileKey string) ([]byte, error) {
	if strings.ToUpper(r.Method) != "POST" {
		return nil, errors.Errorf("Invalid http method %q", r.Method)
	}

	f, _, err := r.FormFile(formFileKey)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read")
	}

	return data, nil
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		log.Printf("Error when writing response: %v", err)
	}
}

func WriteError(w http.ResponseWriter, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, err := json.Marshal(&jError{Error: err.Error()})
	if err == nil {
		log.Printf("HERR: %v", string(data))
		WriteResult(w, data)
	} else {
		log.Printf("Error marshaling error '%v': %v", err, data)
	}
}
