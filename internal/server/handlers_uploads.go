package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// handleServeUpload serves stored résumé files in local storage mode.
// Names never contain path separators, so anything else is rejected
// before touching the filesystem.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid file name"), ErrCodeInvalidArgument))
		return
	}

	http.ServeFile(w, r, filepath.Join(s.uploadsDir, name))
}
