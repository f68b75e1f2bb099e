package handler

import (
	"errors"
	"fmt"

	"etfpanel/internal/db"

	"github.com/gofiber/fiber/v2"
)

type CollectionHandler struct {
	r    CollectionRetriever
	w    CollectionSaver
	auth fiber.Handler
}

func NewCollectionHandler(r CollectionRetriever, w CollectionSaver, auth fiber.Handler) *CollectionHandler {
	return &CollectionHandler{
		r:    r,
		w:    w,
		auth: auth,
	}
}

func (h *CollectionHandler) InitRoute(app fiber.Router) {

	router := app.Group("/etf-collect")

	router.Get("/", h.auth, h.Collections)
	router.Post("/", h.auth, h.Collect)
	router.Delete("/:cid<int>", h.auth, h.Uncollect)
}

func (h *CollectionHandler) Collections(c *fiber.Ctx) error {

	user := currentUser(c)
	rows, err := h.r.Collections(c.UserContext(), user.ID)
	if err != nil {
		return fmt.Errorf("Collections 조회 오류. %w", err)
	}

	return respond(c, fiber.StatusOK, "collections", collectionsResp{Total: len(rows), Collections: rows})
}

func (h *CollectionHandler) Collect(c *fiber.Ctx) error {

	var param CollectReq
	if err := bodyParse(c, &param); err != nil {
		return err
	}

	cat, err := h.r.CategoryByID(c.UserContext(), param.Cid)
	if err != nil {
		return fmt.Errorf("CategoryByID 조회 오류. %w", err)
	}
	if cat == nil {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("sector %d not found", param.Cid))
	}

	user := currentUser(c)
	uc, err := h.w.AddCollection(c.UserContext(), user.ID, param.Cid)
	if errors.Is(err, db.ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "sector already collected")
	}
	if err != nil {
		return fmt.Errorf("AddCollection 오류. %w", err)
	}

	return respond(c, fiber.StatusCreated, "sector collected", fiber.Map{
		"collect_id":   uc.CollectID,
		"cid":          uc.Cid,
		"sector":       cat.Name,
		"collect_time": uc.CollectTime,
	})
}

func (h *CollectionHandler) Uncollect(c *fiber.Ctx) error {

	cid, err := c.ParamsInt("cid")
	if err != nil || cid <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cid must be a positive integer")
	}

	user := currentUser(c)
	removed, err := h.w.RemoveCollection(c.UserContext(), user.ID, uint(cid))
	if err != nil {
		return fmt.Errorf("RemoveCollection 오류. %w", err)
	}
	if !removed {
		return fiber.NewError(fiber.StatusNotFound, "sector not in collection")
	}

	return respond(c, fiber.StatusOK, "sector removed from collection", nil)
}
