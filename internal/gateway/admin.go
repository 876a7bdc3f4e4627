package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterAdminRoutes mounts the small CRUD surface SPEC_FULL.md §D.2
// adds over the dynamic service registry: GET/POST/PUT/DELETE
// /gateway/services.
func RegisterAdminRoutes(router *mux.Router, registry *Registry) {
	router.HandleFunc("/gateway/services", listServices(registry)).Methods(http.MethodGet)
	router.HandleFunc("/gateway/services", createService(registry)).Methods(http.MethodPost)
	router.HandleFunc("/gateway/services/{name}", updateService(registry)).Methods(http.MethodPut)
	router.HandleFunc("/gateway/services/{name}", deleteService(registry)).Methods(http.MethodDelete)
}

func listServices(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := registry.List()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, services)
	}
}

func createService(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var svc Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil || svc.Name == "" || svc.BaseURL == "" {
			writeJSONError(w, http.StatusUnprocessableEntity, "name and baseUrl are required")
			return
		}
		if err := registry.Create(svc); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func updateService(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		var svc Service
		if err := json.NewDecoder(r.Body).Decode(&svc); err != nil || svc.BaseURL == "" {
			writeJSONError(w, http.StatusUnprocessableEntity, "baseUrl is required")
			return
		}
		svc.Name = name
		if err := registry.Create(svc); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func deleteService(registry *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		if err := registry.Delete(name); err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
