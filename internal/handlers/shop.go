// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"thumbstudio/internal/middleware"
	"thumbstudio/internal/models"
	"thumbstudio/internal/store"
)

// Shop handles the simulated UPI top-up flow: a payment QR code and a
// transaction-reference verification step that credits tokens.
type Shop struct {
	users       *store.UserStore
	purchases   *store.PurchaseStore
	upiAddress  string
	payeeName   string
	verifyDelay time.Duration
}

// NewShop creates a new Shop handler group. verifyDelay simulates the
// time a real payment check would take.
func NewShop(users *store.UserStore, purchases *store.PurchaseStore, upiAddress, payeeName string, verifyDelay time.Duration) *Shop {
	return &Shop{
		users:       users,
		purchases:   purchases,
		upiAddress:  upiAddress,
		payeeName:   payeeName,
		verifyDelay: verifyDelay,
	}
}

// Offer describes the fixed top-up bundle.
type Offer struct {
	Tokens     int    `json:"tokens"`
	PriceINR   int    `json:"price_inr"`
	UPIAddress string `json:"upi_address"`
	PayeeName  string `json:"payee_name"`
}

// OfferDetails returns the bundle the QR code pays for.
func (h *Shop) OfferDetails(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Offer{
		Tokens:     models.PurchaseTokenAmount,
		PriceINR:   models.PurchasePriceINR,
		UPIAddress: h.upiAddress,
		PayeeName:  h.payeeName,
	})
}

// QR renders the UPI payment QR code as a PNG.
func (h *Shop) QR(w http.ResponseWriter, r *http.Request) {
	uri := h.paymentURI()

	code, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		// Purely presentational, so degrade to a flat placeholder tile
		// instead of failing the purchase flow.
		slog.Error("payment qr encode failed", "error", err)
		code = placeholderTile(256)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Write(code)
}

// placeholderTile renders a flat grey square PNG.
func placeholderTile(size int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	grey := color.NRGBA{R: 0xe5, G: 0xe5, B: 0xe5, A: 0xff}
	draw.Draw(img, img.Bounds(), image.NewUniform(grey), image.Point{}, draw.Src)

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// paymentURI builds the upi:// deep link encoded into the QR code.
func (h *Shop) paymentURI() string {
	q := url.Values{}
	q.Set("pa", h.upiAddress)
	q.Set("pn", h.payeeName)
	q.Set("am", fmt.Sprintf("%d", models.PurchasePriceINR))
	q.Set("cu", "INR")
	q.Set("tn", fmt.Sprintf("%d tokens", models.PurchaseTokenAmount))
	return "upi://pay?" + q.Encode()
}

type verifyRequest struct {
	Reference string `json:"reference"`
}

type verifyResponse struct {
	Purchase *models.Purchase `json:"purchase"`
	Balance  int              `json:"balance"`
}

// Verify accepts a UPI transaction reference, simulates the payment
// check, records the purchase, and credits the token bundle. A reference
// can be redeemed once.
func (h *Shop) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Reference = strings.TrimSpace(req.Reference)
	if msg := validateReference(req.Reference); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// Stand-in for a gateway settlement check.
	select {
	case <-time.After(h.verifyDelay):
	case <-r.Context().Done():
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	purchase, err := h.purchases.Create(sess.UserID, req.Reference, models.PurchaseTokenAmount, models.PurchasePriceINR)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateReference) {
			writeError(w, http.StatusConflict, "this transaction reference was already redeemed")
			return
		}
		slog.Error("purchase record failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not record purchase")
		return
	}

	balance, err := h.users.CreditTokens(sess.UserID, models.PurchaseTokenAmount)
	if err != nil {
		slog.Error("purchase credit failed", "user_id", sess.UserID, "purchase_id", purchase.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not credit tokens")
		return
	}

	slog.Info("tokens purchased",
		"user_id", sess.UserID, "reference", req.Reference, "tokens", models.PurchaseTokenAmount, "balance", balance)
	writeJSON(w, http.StatusOK, verifyResponse{Purchase: purchase, Balance: balance})
}

// Purchases lists the user's verified top-ups, newest first.
func (h *Shop) Purchases(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	purchases, err := h.purchases.ListByUser(sess.UserID)
	if err != nil {
		slog.Error("purchase list failed", "user_id", sess.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load purchases")
		return
	}
	if purchases == nil {
		purchases = []models.Purchase{}
	}
	writeJSON(w, http.StatusOK, purchases)
}
