package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/types"
)

func TestOnboardingWizardCompletes(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageOnboarding)
	svc := NewProfileService(gdb, logger.NewNop(), repos.NewProfileRepo(gdb, logger.NewNop()))
	ctx := context.Background()

	steps := []*OnboardingStepInput{
		{Step: 1, FullName: "Asha Rao", EducationLevel: "Undergraduate"},
		{Step: 2, GPA: "3.6", Major: "Computer Science", GraduationYear: "2026"},
		{Step: 3, TargetDegree: "MS", TargetMajor: "AI", TargetCountry: "USA", Budget: "40000"},
		{Step: 4, TestScores: map[string]any{"ielts": "7.5"}, WorkExperience: "1 year internship"},
	}
	for _, step := range steps {
		profile, err := svc.SaveOnboardingStep(ctx, userID, step)
		require.NoError(t, err)
		assert.False(t, profile.IsProfileComplete)
		assert.Equal(t, step.Step+1, profile.OnboardingStep)
		assert.Equal(t, types.StageOnboarding, profile.CurrentStage)
	}

	profile, err := svc.SaveOnboardingStep(ctx, userID, &OnboardingStepInput{
		Step: 5, Extracurriculars: "Robotics club", CareerAspirations: "ML engineer",
	})
	require.NoError(t, err)
	assert.True(t, profile.IsProfileComplete)
	assert.Equal(t, types.StageDiscovery, profile.CurrentStage)
	assert.Equal(t, "3.6", profile.GPA)
	assert.Equal(t, "USA", profile.TargetCountry)
}

func TestOnboardingStepResubmitDoesNotRewind(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageOnboarding)
	svc := NewProfileService(gdb, logger.NewNop(), repos.NewProfileRepo(gdb, logger.NewNop()))
	ctx := context.Background()

	_, err := svc.SaveOnboardingStep(ctx, userID, &OnboardingStepInput{Step: 1, FullName: "Asha"})
	require.NoError(t, err)
	_, err = svc.SaveOnboardingStep(ctx, userID, &OnboardingStepInput{Step: 2, GPA: "3.6"})
	require.NoError(t, err)

	// Editing step 1 again keeps the pointer at step 3.
	profile, err := svc.SaveOnboardingStep(ctx, userID, &OnboardingStepInput{Step: 1, FullName: "Asha Rao"})
	require.NoError(t, err)
	assert.Equal(t, 3, profile.OnboardingStep)
	assert.Equal(t, "Asha Rao", profile.FullName)
}

func TestOnboardingStepBounds(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageOnboarding)
	svc := NewProfileService(gdb, logger.NewNop(), repos.NewProfileRepo(gdb, logger.NewNop()))

	_, err := svc.SaveOnboardingStep(context.Background(), userID, &OnboardingStepInput{Step: 0})
	assert.Error(t, err)
	_, err = svc.SaveOnboardingStep(context.Background(), userID, &OnboardingStepInput{Step: 6})
	assert.Error(t, err)
}

func TestProfileUpdateWhitelist(t *testing.T) {
	gdb := newTestDB(t)
	userID := registerTestUser(t, gdb, types.StageDiscovery)
	svc := NewProfileService(gdb, logger.NewNop(), repos.NewProfileRepo(gdb, logger.NewNop()))
	ctx := context.Background()

	profile, err := svc.Update(ctx, userID, map[string]any{
		"gpa":           "3.9",
		"current_stage": 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "3.9", profile.GPA)
	assert.Equal(t, types.StageDiscovery, profile.CurrentStage, "stage must not be writable through profile update")

	_, err = svc.Update(ctx, userID, map[string]any{"current_stage": 7})
	assert.Error(t, err, "update with only blocked fields is rejected")
}
