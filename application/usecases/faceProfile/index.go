package faceprofile_usecases

import (
	"context"
	"errors"

	apperrors "vericlass.io/application/appErrors"
	"vericlass.io/application/repository"
	"vericlass.io/entities"
	"vericlass.io/infrastructure/biometric"
	"vericlass.io/infrastructure/biometric/types"
)

// EnrollFaceProfileUseCase extracts a reference embedding from the supplied
// image and stores it as the student's face profile, replacing any previous
// one. Enrollment is held to the same liveness bar as verification.
func EnrollFaceProfileUseCase(ctx any, studentID string, imageBytes []byte, reported types.LivenessSignal, deviceID string) *entities.FaceProfile {
	service := biometric.Service()

	embedding, err := service.ExtractReferenceEmbedding(imageBytes, reported)
	if err != nil {
		var livenessErr *biometric.LivenessError
		switch {
		case errors.As(err, &livenessErr):
			apperrors.ClientError(ctx, livenessErr.Error(), nil, nil, deviceID)
		case errors.Is(err, biometric.ErrNoFaceDetected):
			apperrors.ClientError(ctx, "no face was found in the enrollment image", nil, nil, deviceID)
		case errors.Is(err, biometric.ErrMultipleFaces):
			apperrors.ClientError(ctx, "the enrollment image must hold exactly one face", nil, nil, deviceID)
		case errors.Is(err, biometric.ErrEmptyInput):
			apperrors.ClientError(ctx, "the enrollment image could not be decoded", nil, nil, deviceID)
		default:
			apperrors.UnknownError(ctx, err, nil, deviceID)
		}
		return nil
	}

	profileRepo := repository.FaceProfileRepo()
	existing, err := profileRepo.FindOneByFilter(context.TODO(), map[string]interface{}{
		"studentID": studentID,
	})
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}

	if existing != nil {
		_, err = profileRepo.UpdatePartialByFilter(context.TODO(), map[string]interface{}{
			"studentID": studentID,
		}, map[string]interface{}{
			"embedding": embedding,
			"dimension": len(embedding),
			"modelName": service.ModelName(),
		})
		if err != nil {
			apperrors.UnknownError(ctx, err, nil, deviceID)
			return nil
		}
		existing.Embedding = embedding
		existing.Dimension = len(embedding)
		existing.ModelName = service.ModelName()
		return existing
	}

	created, err := profileRepo.CreateOne(context.TODO(), entities.FaceProfile{
		StudentID: studentID,
		Embedding: embedding,
		Dimension: len(embedding),
		ModelName: service.ModelName(),
	})
	if err != nil {
		apperrors.UnknownError(ctx, err, nil, deviceID)
		return nil
	}
	return created
}
