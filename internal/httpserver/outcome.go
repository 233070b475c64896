package httpserver

import (
	"log"
	"net/http"
)

// Outcome is a handler's explicit routing decision: it wrote a response, it
// declined so a later route may try the same request, or it hit a server
// fault after committing to the request.
type Outcome struct {
	kind outcomeKind
	err  error
}

type outcomeKind int

const (
	outcomeHandled outcomeKind = iota
	outcomeDeclined
	outcomeFailed
)

func Handled() Outcome         { return Outcome{kind: outcomeHandled} }
func Declined() Outcome        { return Outcome{kind: outcomeDeclined} }
func Failed(err error) Outcome { return Outcome{kind: outcomeFailed, err: err} }

// A route handles a request or declines it.
type route func(w http.ResponseWriter, r *http.Request) Outcome

// chain tries routes in order, moving on whenever one declines. A fault
// stops the chain with a 500; if every route declines the result is 404.
func chain(routes ...route) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, rt := range routes {
			out := rt(w, r)
			switch out.kind {
			case outcomeHandled:
				return
			case outcomeFailed:
				log.Printf("%s %s: %v", r.Method, r.URL.Path, out.err)
				http.Error(w, out.err.Error(), http.StatusInternalServerError)
				return
			}
		}
		http.NotFound(w, r)
	})
}
