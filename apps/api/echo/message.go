package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/pembiasaan/core/message"
)

type messageApi struct {
	deps ServerDeps
}

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := messageApi{deps: deps}

	mg := g.Group("/messages", jwt)
	mg.POST("", api.send)
	mg.GET("", api.query)
	mg.POST("/read", api.markConversationRead)
	mg.POST("/:id/read", api.markBroadcastRead, teacherMiddleware())
	mg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *messageApi) send(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data message.NewMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	data.SenderID = claims.Subject
	if data.RecipientID == message.BroadcastRecipient && !claims.IsAdmin {
		return errHttpForbidden
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	msg, err := api.deps.MessageSvc.Send(data)
	if err != nil {
		return errors.Wrap(err, "sending message")
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messageApi) query(ctx echo.Context) error {
	acct, err := getContextAccount(ctx, api.deps.AccountSvc)
	if err != nil {
		return errors.Wrap(err, "getting context account")
	}

	msgs, err := api.deps.MessageSvc.QueryForAccount(acct)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []message.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageApi) markConversationRead(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data MarkReadRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkReadRequest")
	}
	if err = api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	if err = api.deps.MessageSvc.MarkConversationRead(data.SenderID, claims.Subject); err != nil {
		return errors.Wrap(err, "marking conversation read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *messageApi) markBroadcastRead(ctx echo.Context) error {
	if err := api.deps.MessageSvc.MarkBroadcastRead(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "marking broadcast read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *messageApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if err = api.deps.MessageSvc.Delete(ctx.Param("id"), claims.Subject); err != nil {
		return errors.Wrap(err, "deleting message")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type MarkReadRequest struct {
	SenderID string `json:"sender_id" validate:"required"`
}
