package survey

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	builderdomain "github.com/Sarojv04/TDS-Project/internal/builder/domain"
	"github.com/Sarojv04/TDS-Project/internal/infrastructure/formpost"
	"github.com/Sarojv04/TDS-Project/internal/interfaces/http/common"
	surveyapp "github.com/Sarojv04/TDS-Project/internal/survey/application"
	surveydomain "github.com/Sarojv04/TDS-Project/internal/survey/domain"
	"github.com/Sarojv04/TDS-Project/internal/survey/formcodec"
)

// createHandler はビルダーが送信した form-urlencoded の本文を受け取り、アンケートとして保存する。
func (h *Handler) createHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.formSender(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveys.CreateFromForm(ctx, user.ID, r.PostForm)
		if err != nil {
			if isFormError(err) {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			h.logger.Error("survey create failed", zap.String("creator_id", user.ID), zap.Error(err))
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの保存に失敗しました")
			return
		}

		h.logger.Info("survey created",
			zap.String("survey_id", survey.ID),
			zap.String("creator_id", user.ID),
			zap.String("status", survey.Status.String()),
			zap.Int("questions", len(survey.Questions)),
		)
		common.WriteJSON(h.logger, w, http.StatusCreated, toSurveyResponse(*survey))
	}
}

// replaceHandler は保存済みアンケートを編集し直したフォームで置き換える。
func (h *Handler) replaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.formSender(w, r)
		if !ok {
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := h.surveys.ReplaceFromForm(ctx, id, user.ID, r.PostForm)
		if err != nil {
			if isFormError(err) {
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
				return
			}
			h.writeUpdateError(w, "replace", id, err)
			return
		}

		h.logger.Info("survey replaced",
			zap.String("survey_id", survey.ID),
			zap.String("creator_id", user.ID),
			zap.String("status", survey.Status.String()),
		)
		common.WriteJSON(h.logger, w, http.StatusOK, toSurveyResponse(*survey))
	}
}

// formSender は認証済みユーザーを取り出し、フォーム本文を読み込む。
// ビルダーが付与した作成者 ID がある場合はユーザーと一致することを確認する。
func (h *Handler) formSender(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	user, ok := common.RequireUser(h.logger, w, r)
	if !ok {
		return common.AuthenticatedUser{}, false
	}
	if owner := strings.TrimSpace(r.Header.Get(formpost.OwnerHeader)); owner != "" && owner != user.ID {
		h.logger.Warn("survey owner mismatch", zap.String("owner", owner), zap.String("user_id", user.ID))
		common.WriteError(h.logger, w, http.StatusForbidden, "作成者と認証ユーザーが一致しません")
		return common.AuthenticatedUser{}, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, common.MaxFormRequestBody)
	if err := r.ParseForm(); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, "フォームの形式が不正です")
		return common.AuthenticatedUser{}, false
	}
	return user, true
}

// listHandler は公開済み・受付終了のアンケートのみ返す。下書きは作成者向け API から参照する。
func (h *Handler) listHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		if status == "" {
			status = surveydomain.StatusPublished.String()
		}
		if status == surveydomain.StatusDraft.String() {
			common.WriteError(h.logger, w, http.StatusBadRequest, "下書きは一覧できません")
			return
		}
		h.writeList(w, r, surveyapp.SurveyFilter{Status: status})
	}
}

func (h *Handler) myListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		h.writeList(w, r, surveyapp.SurveyFilter{
			CreatorID: user.ID,
			Status:    strings.TrimSpace(r.URL.Query().Get("status")),
		})
	}
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, filter surveyapp.SurveyFilter) {
	if filter.Status != "" {
		if _, err := surveydomain.NewStatus(filter.Status); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "status が不正です")
			return
		}
	}

	query := r.URL.Query()
	page, _ := common.ParsePositiveInt(query.Get("page"), 1)
	limit, _ := common.ParsePositiveInt(query.Get("limit"), 10)
	if limit > 100 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	surveys, err := h.surveys.List(ctx, filter, surveyapp.Paging{Page: page, Limit: limit})
	if err != nil {
		h.logger.Error("survey list fetch failed", zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの取得に失敗しました")
		return
	}
	common.WriteJSON(h.logger, w, http.StatusOK, toSurveyListResponse(surveys, page, limit))
}

func (h *Handler) detailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		survey, ok := h.fetch(w, r)
		if !ok {
			return
		}
		if survey.Status == surveydomain.StatusDraft {
			common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSurveyResponse(*survey))
	}
}

func (h *Handler) myDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		survey, ok := h.fetch(w, r)
		if !ok {
			return
		}
		if survey.CreatorID != user.ID {
			common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSurveyResponse(*survey))
	}
}

func (h *Handler) publishHandler() http.HandlerFunc {
	return h.transitionHandler("publish", func(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error) {
		return h.surveys.Publish(ctx, id, creatorID)
	})
}

func (h *Handler) closeHandler() http.HandlerFunc {
	return h.transitionHandler("close", func(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error) {
		return h.surveys.Close(ctx, id, creatorID)
	})
}

// deleteHandler は作成者の下書きを論理削除する。
func (h *Handler) deleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := h.surveys.Delete(ctx, id, user.ID); err != nil {
			h.writeUpdateError(w, "delete", id, err)
			return
		}
		h.logger.Info("survey deleted", zap.String("survey_id", id), zap.String("creator_id", user.ID))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) transitionHandler(name string, apply func(ctx context.Context, id, creatorID string) (*surveydomain.Survey, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.logger, w, r)
		if !ok {
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "id"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		survey, err := apply(ctx, id, user.ID)
		if err != nil {
			h.writeUpdateError(w, name, id, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, toSurveyResponse(*survey))
	}
}

func (h *Handler) writeUpdateError(w http.ResponseWriter, action, id string, err error) {
	switch {
	case errors.Is(err, surveydomain.ErrSurveyNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
	case errors.Is(err, surveydomain.ErrInvalidTransition), errors.Is(err, surveydomain.ErrSurveyConflict):
		common.WriteError(h.logger, w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("survey update failed", zap.String("action", action), zap.String("survey_id", id), zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの更新に失敗しました")
	}
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) (*surveydomain.Survey, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	survey, err := h.surveys.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, surveydomain.ErrSurveyNotFound) {
			common.WriteError(h.logger, w, http.StatusNotFound, "アンケートが見つかりません")
			return nil, false
		}
		h.logger.Error("survey detail fetch failed", zap.String("survey_id", id), zap.Error(err))
		common.WriteError(h.logger, w, http.StatusInternalServerError, "アンケートの取得に失敗しました")
		return nil, false
	}
	return survey, true
}

func isFormError(err error) bool {
	return errors.Is(err, formcodec.ErrMissingName) ||
		errors.Is(err, formcodec.ErrNoQuestions) ||
		errors.Is(err, formcodec.ErrMissingOptions) ||
		errors.Is(err, builderdomain.ErrInvalidStatus) ||
		errors.Is(err, builderdomain.ErrInvalidQuestionType)
}
