package api

import (
	"github.com/gorilla/mux"
)

// Collection names served by the API
const (
	CollectionUsuarios = "usuarios"
	CollectionGrupos   = "grupos"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	// Usuarios
	router.HandleFunc("/usuarios", h.dispatch(OpCreate, CollectionUsuarios)).Methods("POST")
	router.HandleFunc("/usuarios", h.dispatch(OpRead, CollectionUsuarios)).Methods("GET")
	router.HandleFunc("/usuarios/{id}", h.dispatch(OpRead, CollectionUsuarios)).Methods("GET")
	router.HandleFunc("/usuarios/{id}", h.dispatch(OpUpdate, CollectionUsuarios)).Methods("PUT")
	router.HandleFunc("/usuarios/{id}", h.dispatch(OpDelete, CollectionUsuarios)).Methods("DELETE")

	// Grupos
	router.HandleFunc("/grupos", h.dispatch(OpCreate, CollectionGrupos)).Methods("POST")
	router.HandleFunc("/grupos", h.dispatch(OpRead, CollectionGrupos)).Methods("GET")
	router.HandleFunc("/grupos/{id}", h.dispatch(OpRead, CollectionGrupos)).Methods("GET")
	router.HandleFunc("/grupos/{id}", h.dispatch(OpUpdate, CollectionGrupos)).Methods("PUT")
	router.HandleFunc("/grupos/{id}", h.dispatch(OpDelete, CollectionGrupos)).Methods("DELETE")
}
