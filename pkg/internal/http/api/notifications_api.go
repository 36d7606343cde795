package api

import (
	"git.solsynth.dev/hypernet/scribe/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func listNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	client := exts.GetClient(c)
	if err := client.Notifications.Open(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(client.Store.Notifications.State())
}

func markNotificationRead(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "notificationId")
	if err != nil {
		return err
	}

	client := exts.GetClient(c)
	if err := client.Notifications.MarkRead(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(client.Store.Notifications.State())
}

func markAllNotificationsRead(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	client := exts.GetClient(c)
	if err := client.Notifications.MarkAllRead(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(client.Store.Notifications.State())
}

func deleteNotification(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := exts.ParamID(c, "notificationId")
	if err != nil {
		return err
	}

	if err := exts.GetClient(c).Notifications.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
