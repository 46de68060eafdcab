package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"goldendogfarm-admin/internal/middleware"
	"goldendogfarm-admin/internal/ports/auth"
	"goldendogfarm-admin/internal/resource"

	"github.com/go-chi/chi/v5"
)

const maxJSONBody = 1 << 20

// RegisterRoutes monta login y las rutas genéricas /api/v1/{resource}/{action}[/{id}].
func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Post(resource.APIPrefix+"/auth/login", loginHandler(svc, issuer))

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireClaims)
		h := dispatchHandler(svc)
		pr.HandleFunc(resource.APIPrefix+"/{resource}/{action}", h)
		pr.HandleFunc(resource.APIPrefix+"/{resource}/{action}/{id}", h)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if issuer == nil {
			writeError(w, http.StatusServiceUnavailable, "token issuer not configured")
			return
		}
		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		claims, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			svc.writeErr(w, err)
			return
		}
		tok, err := issuer.Issue(claims)
		if err != nil {
			svc.writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": tok})
	}
}

func method(e Entity, op Op) string {
	switch op {
	case OpAdd:
		return http.MethodPost
	case OpEdit:
		if strings.EqualFold(e.Endpoints.EditMethod, http.MethodPatch) {
			return http.MethodPatch
		}
		return http.MethodPut
	case OpDisable:
		return http.MethodPatch
	default:
		return http.MethodGet
	}
}

func dispatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, op, ok := svc.Table().Route(chi.URLParam(r, "resource"), chi.URLParam(r, "action"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown endpoint")
			return
		}
		if want := method(e, op); r.Method != want {
			w.Header().Set("Allow", want)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if e.AdminOnly && op != OpList {
			if claims, _ := middleware.GetClaims(r.Context()); !claims.IsAdmin() {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
		}

		rawID := chi.URLParam(r, "id")
		if op == OpList {
			listRecords(svc, e, rawID, w, r)
			return
		}
		if op == OpAdd {
			if rawID != "" {
				writeError(w, http.StatusNotFound, "unknown endpoint")
				return
			}
			addRecord(svc, e, w, r)
			return
		}

		id, err := strconv.Atoi(rawID)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		switch op {
		case OpEdit:
			editRecord(svc, e, id, w, r)
		case OpDisable:
			if _, err := svc.Disable(r.Context(), e, id); err != nil {
				svc.writeErr(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"message": e.Name + " disabled", "id": id})
		case OpDetail, OpReceipt:
			row, err := svc.detail(r.Context(), e, id)
			if err != nil {
				svc.writeErr(w, err)
				return
			}
			if op == OpDetail {
				writeJSON(w, http.StatusOK, map[string]any{"data": row})
				return
			}
			pdf, err := Receipt(svc.receiptFont, "Reservation #"+rawID, row)
			if err != nil {
				svc.writeErr(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="`+reservationFile(id)+`"`)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(pdf)
		}
	}
}

func (s *Service) detail(ctx context.Context, e Entity, id int) (map[string]any, error) {
	rec, err := s.Get(ctx, e, id)
	if err != nil {
		return nil, err
	}
	return s.Row(ctx, e, rec)
}

func reservationFile(id int) string { return "reservation_" + strconv.Itoa(id) + ".pdf" }

func listRecords(svc *Service, e Entity, scope string, w http.ResponseWriter, r *http.Request) {
	q := ListQuery{Filters: map[string]string{}}
	for k, vals := range r.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		switch k {
		case "page":
			q.Page, _ = strconv.Atoi(vals[0])
		case "limit":
			q.Limit, _ = strconv.Atoi(vals[0])
		default:
			q.Filters[k] = vals[0]
		}
	}
	switch {
	case e.Endpoints.Scope != "" && scope == "":
		writeError(w, http.StatusBadRequest, e.Endpoints.Scope+" is required")
		return
	case e.Endpoints.Scope != "":
		q.Filters[e.Endpoints.Scope] = scope
	case scope != "":
		writeError(w, http.StatusNotFound, "unknown endpoint")
		return
	}
	if q.Limit < 0 {
		q.Limit = 0
	}

	page, err := svc.List(r.Context(), e, q)
	if err != nil {
		svc.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func addRecord(svc *Service, e Entity, w http.ResponseWriter, r *http.Request) {
	var (
		rec Record
		err error
	)
	if e.Multipart {
		u, uerr := readUpload(w, r)
		if uerr != nil {
			svc.writeErr(w, uerr)
			return
		}
		data := map[string]any{}
		if err := u.apply(data); err != nil {
			svc.writeErr(w, err)
			return
		}
		rec, err = svc.Add(r.Context(), e, data)
	} else {
		body, berr := decodeBody(w, r)
		if berr != nil {
			svc.writeErr(w, berr)
			return
		}
		rec, err = svc.Add(r.Context(), e, body)
	}
	if err != nil {
		svc.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": e.Name + " created", "id": rec.ID})
}

func editRecord(svc *Service, e Entity, id int, w http.ResponseWriter, r *http.Request) {
	var err error
	if e.Multipart {
		u, uerr := readUpload(w, r)
		if uerr != nil {
			svc.writeErr(w, uerr)
			return
		}
		_, err = svc.Mutate(r.Context(), e, id, u.apply)
	} else {
		body, berr := decodeBody(w, r)
		if berr != nil {
			svc.writeErr(w, berr)
			return
		}
		_, err = svc.Edit(r.Context(), e, id, body)
	}
	if err != nil {
		svc.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": e.Name + " updated", "id": id})
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

func (s *Service) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		s.log.Error("request failed", map[string]any{"err": err})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
