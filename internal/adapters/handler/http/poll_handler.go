package http

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type PollHandler struct {
	client ports.PollClient
	lists  *services.PollListService
	forms  *services.PollFormService
	views  *Views

	// voting holds the session tokens with a vote outstanding.
	mu     sync.Mutex
	voting map[string]struct{}
}

func NewPollHandler(client ports.PollClient, views *Views) *PollHandler {
	return &PollHandler{
		client: client,
		lists:  services.NewPollListService(client),
		forms:  services.NewPollFormService(client),
		views:  views,
		voting: make(map[string]struct{}),
	}
}

// claimVote marks the session as voting. It reports false if a vote from the
// same session is still outstanding.
func (h *PollHandler) claimVote(token string) (release func(), ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, busy := h.voting[token]; busy {
		return nil, false
	}
	h.voting[token] = struct{}{}
	return func() {
		h.mu.Lock()
		delete(h.voting, token)
		h.mu.Unlock()
	}, true
}

type pollListView struct {
	State  string
	Err    string
	Notice string
	Empty  bool
	Items  []services.PollItem
}

type createView struct {
	Draft *services.PollDraft
	Error string
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	list := services.NewPollList()
	h.lists.Load(r.Context(), list)
	h.renderList(w, r, list, http.StatusOK, "")
}

// Vote handles the per-option vote buttons. The list is loaded first so the
// chosen option is checked against what the service currently holds, then the
// vote goes through the poll item to the list. Only one vote per session may
// be outstanding; a recorded vote redirects back to the list.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id := domain.PollID(chi.URLParam(r, "id"))
	if id == "" {
		http.Error(w, "missing poll id", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	optionIndex, err := strconv.Atoi(r.FormValue("option_index"))
	if err != nil {
		http.Error(w, "invalid option index", http.StatusBadRequest)
		return
	}

	list := services.NewPollList()
	h.lists.Load(r.Context(), list)
	if list.State() == services.StateFailure {
		h.renderList(w, r, list, http.StatusOK, "")
		return
	}

	voteErr := h.vote(r, list, id, optionIndex)
	if voteErr != nil {
		notice := list.Notice()
		if notice == "" {
			notice = "Vote failed: " + voteErr.Error()
		}
		status := http.StatusBadGateway
		if services.IsClientError(voteErr) {
			status = http.StatusBadRequest
		}
		logging.Log.Warnf("vote on poll %s option %d rejected: %v", id, optionIndex, voteErr)
		h.renderList(w, r, list, status, notice)
		return
	}

	http.Redirect(w, r, "/polls", http.StatusSeeOther)
}

// vote routes the choice through the matching poll item while holding the
// session's vote slot.
func (h *PollHandler) vote(r *http.Request, list *services.PollList, id domain.PollID, optionIndex int) error {
	var token string
	if session, ok := domain.SessionFromContext(r.Context()); ok {
		token = session.Token
	}

	release, ok := h.claimVote(token)
	if !ok {
		return domain.ErrVoteInFlight
	}
	defer release()

	voteErr := domain.ErrPollNotFound
	items := list.Items(func(pollID domain.PollID, index int) {
		voteErr = h.lists.Vote(r.Context(), list, pollID, index)
	})
	for _, item := range items {
		if item.ID == id {
			item.Vote(optionIndex)
			break
		}
	}
	return voteErr
}

func (h *PollHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "create", page{Title: "Create Poll", Data: createView{Draft: services.NewPollDraft()}})
}

func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft := &services.PollDraft{
		Title:   r.PostForm.Get("title"),
		Options: r.PostForm["option"],
	}

	if r.PostForm.Get("action") == "add" {
		draft.AddOption()
		h.views.render(w, r, http.StatusOK, "create", page{Title: "Create Poll", Data: createView{Draft: draft}})
		return
	}

	poll, err := h.forms.Submit(r.Context(), draft)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrInvalidPoll) {
			status = http.StatusBadRequest
		}
		if len(draft.Options) == 0 {
			draft.Options = services.NewPollDraft().Options
		}
		h.views.render(w, r, status, "create", page{Title: "Create Poll", Data: createView{Draft: draft, Error: err.Error()}})
		return
	}

	logging.Log.Infof("poll %s created from the web form", poll.ID)
	http.Redirect(w, r, "/polls", http.StatusSeeOther)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing poll id", http.StatusBadRequest)
		return
	}

	poll, err := h.client.GetPoll(r.Context(), domain.PollID(id))
	if err != nil {
		if errors.Is(err, domain.ErrPollNotFound) {
			h.views.renderError(w, r, http.StatusNotFound, "poll not found")
			return
		}
		logging.Log.Errorf("failed to get poll %s: %v", id, err)
		h.views.renderError(w, r, http.StatusBadGateway, err.Error())
		return
	}

	h.views.render(w, r, http.StatusOK, "poll", page{Title: poll.Title, Data: services.NewPollItem(*poll, nil)})
}

// renderList renders the list; a list in Failure is always answered with 502.
func (h *PollHandler) renderList(w http.ResponseWriter, r *http.Request, list *services.PollList, status int, notice string) {
	view := pollListView{
		State:  list.State().String(),
		Err:    list.Err(),
		Notice: notice,
		Empty:  list.IsEmpty(),
		Items:  list.Items(nil),
	}

	if list.State() == services.StateFailure {
		status = http.StatusBadGateway
	}
	h.views.render(w, r, status, "polls", page{Title: "All Polls", Data: view})
}
