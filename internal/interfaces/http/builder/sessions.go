package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	builderapp "github.com/Sarojv04/TDS-Project/internal/builder/application"
	"github.com/Sarojv04/TDS-Project/internal/builder/domain"
	"github.com/Sarojv04/TDS-Project/internal/builder/view"
	"github.com/Sarojv04/TDS-Project/internal/interfaces/http/common"
)

func (h *Handler) startHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.service.Start(ctx, user.ID)
		if err != nil {
			h.logger.Error("builder session start failed", zap.String("user_id", user.ID), zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "フォームの作成に失敗しました")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, toSessionResponse(session))
	}
}

// editSurveyHandler は保存済みアンケートを読み戻した編集セッションを開始する。
func (h *Handler) editSurveyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyID"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := h.service.StartFromSurvey(ctx, user.ID, surveyID)
		switch {
		case err == nil:
			common.WriteJSON(h.logger, w, http.StatusCreated, toSessionResponse(session))
		case errors.Is(err, builderapp.ErrSurveyUnavailable):
			common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
		case errors.Is(err, builderapp.ErrSurveyReadOnly):
			common.WriteError(h.logger, w, http.StatusConflict, "受付終了したアンケートは編集できません")
		default:
			h.logger.Error("builder edit session start failed",
				zap.String("user_id", user.ID),
				zap.String("survey_id", surveyID),
				zap.Error(err),
			)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "フォームの作成に失敗しました")
		}
	}
}

func (h *Handler) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.loadSession(w, r)
		if !ok {
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSessionResponse(session))
	}
}

// formHandler はセッションの FormState を HTML フォームとして描画する。
func (h *Handler) formHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.loadSession(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := view.Render(&buf, view.Page{Action: h.formAction, State: session.State}); err != nil {
			h.logger.Error("builder form render failed", zap.String("session_id", session.ID), zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "フォームの描画に失敗しました")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Warn("builder form write failed", zap.Error(err))
		}
	}
}

func (h *Handler) detailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateDetailsRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}
		if req.Name == nil && req.Description == nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "更新内容がありません")
			return
		}
		h.apply(w, r, nil, domain.SetDetails{SurveyName: req.Name, Description: req.Description})
	}
}

func (h *Handler) addQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.applyStatus(w, r, http.StatusCreated, nil, domain.AddQuestion{})
	}
}

func (h *Handler) updateQuestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID, ok := h.questionIDParam(w, r)
		if !ok {
			return
		}
		var req updateQuestionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		var actions []domain.Action
		if req.Type != nil {
			qType, err := domain.NewQuestionType(*req.Type)
			if err != nil {
				common.WriteError(h.logger, w, http.StatusBadRequest, "設問タイプが不正です")
				return
			}
			actions = append(actions, domain.SetQuestionType{QuestionID: questionID, Type: qType})
		}
		if req.Text != nil {
			actions = append(actions, domain.SetQuestionText{QuestionID: questionID, Text: *req.Text})
		}
		if len(actions) == 0 {
			common.WriteError(h.logger, w, http.StatusBadRequest, "更新内容がありません")
			return
		}
		h.apply(w, r, nil, actions...)
	}
}

func (h *Handler) addOptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		questionID, ok := h.questionIDParam(w, r)
		if !ok {
			return
		}
		h.applyStatus(w, r, http.StatusCreated, nil, domain.AddOption{QuestionID: questionID})
	}
}

func (h *Handler) updateOptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateOptionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}
		ref := strings.TrimSpace(chi.URLParam(r, "optionRef"))
		h.apply(w, r, nil, domain.SetOptionLabel{OptionRef: ref, Label: req.Label})
	}
}

// removeOptionHandler は confirm=true が指定された場合のみ削除する。未指定は作者が確認を拒否した扱い。
func (h *Handler) removeOptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimSpace(chi.URLParam(r, "optionRef"))
		confirmed, _ := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get("confirm")))
		h.apply(w, r, builderapp.Answer(confirmed), domain.RemoveOption{OptionRef: ref})
	}
}

func (h *Handler) finalizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req finalizeRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}
		kind, err := domain.NewStatus(req.Kind)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "kind は draft か published を指定してください")
			return
		}
		h.apply(w, r, nil, domain.Finalize{Kind: kind})
	}
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, confirmer builderapp.Confirmer, actions ...domain.Action) {
	h.applyStatus(w, r, http.StatusOK, confirmer, actions...)
}

// applyStatus は actions を順に適用し、最初のエラーで打ち切ってレスポンスへ変換する。
func (h *Handler) applyStatus(w http.ResponseWriter, r *http.Request, status int, confirmer builderapp.Confirmer, actions ...domain.Action) {
	user, ok := common.RequireUser(h.logger, w, r)
	if !ok {
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var (
		session *builderapp.Session
		err     error
	)
	for _, action := range actions {
		session, err = h.service.Apply(ctx, id, user.ID, action, confirmer)
		if err != nil {
			break
		}
	}
	if err == nil {
		common.WriteJSON(h.logger, w, status, toSessionResponse(session))
		return
	}
	h.writeActionError(w, id, session, err)
}

func (h *Handler) writeActionError(w http.ResponseWriter, id string, session *builderapp.Session, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrRemovalDeclined) && session != nil:
		resp := toSessionResponse(session)
		resp.Notice = "選択肢の削除をキャンセルしました"
		common.WriteJSON(h.logger, w, http.StatusOK, resp)
	case errors.As(err, &verr) && session != nil:
		common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, validationErrorResponse{
			Error:   "必須項目が入力されていません",
			Fields:  verr.Fields,
			Session: toSessionResponse(session),
		})
	case errors.Is(err, builderapp.ErrSessionNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "フォームが見つかりません")
	case errors.Is(err, domain.ErrQuestionNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "設問が見つかりません")
	case errors.Is(err, domain.ErrOptionNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "選択肢が見つかりません")
	case errors.Is(err, domain.ErrLastOption):
		common.WriteError(h.logger, w, http.StatusConflict, "選択肢は最低 1 件必要です")
	case errors.Is(err, domain.ErrFormClosed), errors.Is(err, domain.ErrSubmissionInFlight):
		common.WriteError(h.logger, w, http.StatusConflict, "フォームは既に送信されています")
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidQuestionType):
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
	case session != nil:
		// the survey endpoint rejected or never received the submission
		h.logger.Error("survey submission failed", zap.String("session_id", id), zap.Error(err))
		common.WriteError(h.logger, w, http.StatusBadGateway, "アンケートの送信に失敗しました")
	default:
		h.logger.Error("builder action failed", zap.String("session_id", id), zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "フォームの更新に失敗しました")
	}
}

func (h *Handler) loadSession(w http.ResponseWriter, r *http.Request) (*builderapp.Session, bool) {
	user, ok := common.RequireUser(h.logger, w, r)
	if !ok {
		return nil, false
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, err := h.service.Get(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, builderapp.ErrSessionNotFound) {
			common.WriteError(h.logger, w, http.StatusNotFound, "フォームが見つかりません")
			return nil, false
		}
		h.logger.Error("builder session fetch failed", zap.String("session_id", id), zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "フォームの取得に失敗しました")
		return nil, false
	}
	return session, true
}

func (h *Handler) questionIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	questionID, ok := common.ParsePositiveInt(chi.URLParam(r, "questionID"), 0)
	if !ok {
		common.WriteError(h.logger, w, http.StatusBadRequest, "設問IDが不正です")
		return 0, false
	}
	return questionID, true
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxJSONRequestBody)).Decode(dst); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
		return false
	}
	return true
}
