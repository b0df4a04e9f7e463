package main

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/AdamBeresnev/tournament-scheduler/internal/bracket"
	"github.com/AdamBeresnev/tournament-scheduler/internal/httputil"
	"github.com/AdamBeresnev/tournament-scheduler/internal/service"
	"github.com/AdamBeresnev/tournament-scheduler/internal/utils"
	"github.com/AdamBeresnev/tournament-scheduler/views"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type bracketResponse struct {
	RunID    string                   `json:"run_id"`
	Status   bracket.TournamentStatus `json:"status"`
	Champion *string                  `json:"champion"`
	Nodes    int                      `json:"nodes"`
	Data     views.BracketData        `json:"bracket"`
}

func newRouter(svc *service.TournamentService) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/", bracketPage(svc))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/bracket", func(r chi.Router) {
		r.Get("/", bracketJSON(svc))
		r.Get("/tree", bracketTree(svc))
		r.Get("/nodes/{id}", bracketNode(svc))
	})
	r.Get("/bracket.dot", bracketDOT(svc))

	return r
}

func bracketJSON(svc *service.TournamentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := bracketResponse{
			RunID:  svc.RunID().String(),
			Status: svc.Status(),
		}
		if c, ok := svc.Champion(); ok {
			resp.Champion = utils.Ptr(c.String())
		}
		svc.Snapshot(func(b *bracket.Bracket) {
			resp.Nodes = b.Len()
			resp.Data = views.PrepareBracketData(b, svc.BestOf())
		})
		httputil.JSON(w, http.StatusOK, resp)
	}
}

func bracketPage(svc *service.TournamentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var champion *string
		if c, ok := svc.Champion(); ok {
			champion = utils.Ptr(c.String())
		}
		status := svc.Status()

		var data views.BracketData
		svc.Snapshot(func(b *bracket.Bracket) {
			data = views.PrepareBracketData(b, svc.BestOf())
		})

		if err := views.Render(w, r, views.BracketPage(svc.GameName(), status, champion, data)); err != nil {
			httputil.InternalServerError(w, "Failed to render bracket page", err)
		}
	}
}

func bracketNode(svc *service.TournamentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httputil.BadRequest(w, "Invalid node ID", err)
			return
		}

		var (
			node views.NodeView
			ok   bool
		)
		svc.Snapshot(func(b *bracket.Bracket) {
			node, ok = views.PrepareNode(b, bracket.NodeID(id), svc.BestOf())
		})
		if !ok {
			httputil.NotFound(w, "Node not found", nil)
			return
		}
		httputil.JSON(w, http.StatusOK, node)
	}
}

func bracketDOT(svc *service.TournamentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			buf bytes.Buffer
			err error
		)
		svc.Snapshot(func(b *bracket.Bracket) {
			err = views.WriteDOT(&buf, b, svc.BestOf())
		})
		if err != nil {
			httputil.InternalServerError(w, "Failed to render bracket graph", err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write(buf.Bytes())
	}
}

func bracketTree(svc *service.TournamentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		root, ok := svc.Root()
		if !ok {
			httputil.NotFound(w, "Bracket not seeded", nil)
			return
		}

		var (
			buf bytes.Buffer
			err error
		)
		svc.Snapshot(func(b *bracket.Bracket) {
			err = views.WriteTree(&buf, b, root, svc.BestOf())
		})
		if err != nil {
			httputil.InternalServerError(w, "Failed to render bracket tree", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(buf.Bytes())
	}
}
