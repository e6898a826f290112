package stubapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/votoinformado/votoadmin/internal/api"
)

// registerCRUD mounts list/get/create/update/delete routes for one resource.
// veto, when set, can refuse a delete with a conflict message.
func registerCRUD[T any](mux *http.ServeMux, s *Server, base string, col *collection[T], veto func(id string) error) {
	mux.HandleFunc("GET "+base, s.protect(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, col.list(nil))
	}))
	mux.HandleFunc("GET "+base+"/{id}", s.protect(func(w http.ResponseWriter, r *http.Request) {
		item, ok := col.get(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, item)
	}))
	mux.HandleFunc("POST "+base, s.protect(func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := decodePayload(r, &item); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "datos inválidos"})
			return
		}
		writeJSON(w, http.StatusCreated, col.create(item))
	}))
	mux.HandleFunc("PUT "+base+"/{id}", s.protect(func(w http.ResponseWriter, r *http.Request) {
		// Decode on top of the stored record so fields absent from the
		// payload survive: option updates omit pregunta_id, and image
		// URLs stay put when no new file is uploaded.
		item, ok := col.get(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
			return
		}
		if err := decodePayload(r, &item); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "datos inválidos"})
			return
		}
		updated, ok := col.update(r.PathValue("id"), item)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}))
	mux.HandleFunc("DELETE "+base+"/{id}", s.protect(func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if veto != nil {
			if err := veto(id); err != nil {
				writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
		}
		if !col.delete(id) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "eliminado"})
	}))
}

// decodePayload accepts either a JSON body or the multipart form the admin
// client sends for resources with file uploads, decoding into out so fields
// the payload omits keep their current value. Multipart text fields are
// mapped through JSON so field names and bool coercion match the wire types.
func decodePayload[T any](r *http.Request, out *T) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			return err
		}
		values := map[string]any{}
		for key, vals := range r.MultipartForm.Value {
			if len(vals) == 0 {
				continue
			}
			values[key] = coerceFormValue(vals[0])
		}
		for field, files := range r.MultipartForm.File {
			if len(files) > 0 {
				values[imageFieldFor(field)] = "/uploads/images/" + files[0].Filename
			}
		}
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		return json.Unmarshal(data, out)
	}
	return json.NewDecoder(r.Body).Decode(out)
}

// coerceFormValue turns form strings back into JSON scalars. The multipart
// resources only carry strings and bools.
func coerceFormValue(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

// imageFieldFor maps an upload part name to the URL field it populates.
func imageFieldFor(field string) string {
	switch field {
	case "foto":
		return "foto_url"
	case "logo":
		return "logo_url"
	case "imagen":
		return "imagen_url"
	default:
		return field
	}
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.admins.list(nil))
}

func (s *Server) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.store.admins.get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var admin api.Administrator
	if err := json.NewDecoder(r.Body).Decode(&admin); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "datos inválidos"})
		return
	}
	if admin.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "la contraseña es obligatoria"})
		return
	}
	password := admin.Password
	admin.Password = ""
	created := s.store.admins.create(admin)
	if err := s.store.setPassword(created.ID, password); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no se pudo guardar la contraseña"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var admin api.Administrator
	if err := json.NewDecoder(r.Body).Decode(&admin); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "datos inválidos"})
		return
	}
	password := admin.Password
	admin.Password = ""
	updated, ok := s.store.admins.update(r.PathValue("id"), admin)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
		return
	}
	if err := s.store.setPassword(updated.ID, password); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no se pudo guardar la contraseña"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	if !s.store.admins.delete(r.PathValue("id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "eliminado"})
}
