package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validReviewRequest() *ReviewCreateRequest {
	return &ReviewCreateRequest{
		ReviewedUserID: primitive.NewObjectID(),
		TransactionID:  primitive.NewObjectID(),
		Rating:         4,
		Comment:        "smooth trade",
	}
}

func TestValidateReviewCreateAccepts(t *testing.T) {
	assert.Nil(t, ValidateReviewCreate(validReviewRequest()))
}

func TestValidateReviewCreateRejectsZeroIDs(t *testing.T) {
	req := validReviewRequest()
	req.TransactionID = primitive.NilObjectID

	errs := ValidateReviewCreate(req)
	require.NotNil(t, errs)
	assert.Contains(t, errs.Error(), "transactionid")
}

func TestValidateReviewCreateRejectsRatingOutOfRange(t *testing.T) {
	for _, rating := range []int{-1, 6, 42} {
		req := validReviewRequest()
		req.Rating = rating

		errs := ValidateReviewCreate(req)
		require.NotNil(t, errs, "rating %d", rating)
	}
}

func TestValidateReviewCreateRejectsLongComment(t *testing.T) {
	req := validReviewRequest()
	req.Comment = strings.Repeat("x", 1001)

	assert.NotNil(t, ValidateReviewCreate(req))
}

func TestValidateTicketCreate(t *testing.T) {
	valid := &TicketCreateRequest{
		Subject:     "Order stuck",
		Description: "Escrow has not released for two days.",
		Priority:    "medium",
	}
	assert.Nil(t, ValidateTicketCreate(valid))

	noPriority := &TicketCreateRequest{Subject: "Order stuck", Description: "text"}
	assert.Nil(t, ValidateTicketCreate(noPriority))

	missingSubject := &TicketCreateRequest{Description: "text", Priority: "low"}
	assert.NotNil(t, ValidateTicketCreate(missingSubject))

	badPriority := &TicketCreateRequest{Subject: "s", Description: "d", Priority: "whenever"}
	assert.NotNil(t, ValidateTicketCreate(badPriority))
}

func TestValidateTicketStatus(t *testing.T) {
	for _, status := range []string{"new", "in_progress", "resolved", "closed"} {
		assert.Nil(t, ValidateTicketStatus(&TicketStatusRequest{Status: status}), "status %s", status)
	}

	assert.NotNil(t, ValidateTicketStatus(&TicketStatusRequest{Status: "archived"}))
	assert.NotNil(t, ValidateTicketStatus(&TicketStatusRequest{}))
}
