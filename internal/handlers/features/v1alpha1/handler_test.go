package v1alpha1_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-features/internal/engine/locator"
	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	v1alpha1 "github.com/KirkDiggler/rpg-features/internal/handlers/features/v1alpha1"
	"github.com/KirkDiggler/rpg-features/internal/orchestrators/dice"
	featureorch "github.com/KirkDiggler/rpg-features/internal/orchestrators/features"
	"github.com/KirkDiggler/rpg-features/internal/pkg/idgen"
	rollsession "github.com/KirkDiggler/rpg-features/internal/repositories/roll_session"
	"github.com/KirkDiggler/rpg-features/internal/testutils"
)

const bufSize = 1024 * 1024

// fixedRoller always rolls 4
type fixedRoller struct{}

func (fixedRoller) Roll(_ int) (int, error) { return 4, nil }
func (fixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = 4
	}
	return out, nil
}

type HandlerTestSuite struct {
	suite.Suite
	server *grpc.Server
	conn   *grpc.ClientConn
	client *v1alpha1.Client
	raw    v1alpha1.FeatureServiceClient
	ctx    context.Context

	featureService featureorch.Service
	diceService    dice.Service
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctx = context.Background()

	featureService, err := featureorch.NewOrchestrator(&featureorch.Config{
		Registry: testutils.CreateTestRegistry(),
	})
	s.Require().NoError(err)

	redisClient, _ := testutils.CreateTestRedisClient(s.T())
	sessions, err := rollsession.NewRedisRepository(&rollsession.Config{
		Client:      redisClient,
		IDGenerator: idgen.NewSequential("roll"),
	})
	s.Require().NoError(err)

	diceService, err := dice.NewOrchestrator(&dice.Config{Roller: fixedRoller{}, Sessions: sessions})
	s.Require().NoError(err)

	s.featureService = featureService
	s.diceService = diceService

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		FeatureService: featureService,
		DiceService:    diceService,
	})
	s.Require().NoError(err)

	listener := bufconn.Listen(bufSize)
	s.server = grpc.NewServer()
	v1alpha1.RegisterFeatureServiceServer(s.server, handler)
	go func() {
		_ = s.server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.conn = conn
	s.client = v1alpha1.NewClient(conn)
	s.raw = v1alpha1.NewFeatureServiceClient(conn)
}

func (s *HandlerTestSuite) TearDownTest() {
	_ = s.conn.Close()
	s.server.Stop()
}

func (s *HandlerTestSuite) TestNewHandlerValidation() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		FeatureService: s.featureService,
		DiceService:    s.diceService,
		DefaultLevel:   21,
	})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestConfiguredDefaultLevel() {
	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		FeatureService: s.featureService,
		DiceService:    s.diceService,
		DefaultLevel:   5,
	})
	s.Require().NoError(err)

	testCases := []struct {
		name      string
		character map[string]interface{}
		expected  string
	}{
		{
			name:      "level left out",
			character: map[string]interface{}{v1alpha1.FieldAbilities: map[string]interface{}{}},
			expected:  "You regain hit points equal to 1d10 + your fighter level (5).",
		},
		{
			name:      "explicit level wins",
			character: map[string]interface{}{v1alpha1.FieldLevel: 2},
			expected:  "You regain hit points equal to 1d10 + your fighter level (2).",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := structpb.NewStruct(map[string]interface{}{
				v1alpha1.FieldName:      testutils.FeatureSecondWind,
				v1alpha1.FieldCharacter: tc.character,
			})
			s.Require().NoError(err)

			resp, err := handler.GetFeatureDescription(s.ctx, req)
			s.Require().NoError(err)
			s.Assert().Equal(tc.expected, resp.GetFields()[v1alpha1.FieldDescription].GetStringValue())
		})
	}
}

func (s *HandlerTestSuite) TestGetFeatureDescription() {
	character := testutils.CreateTestCharacter(features.AbilityScores{features.AbilityCharisma: 16})

	output, err := s.client.GetFeatureDescription(s.ctx, testutils.FeatureBardicInspiration, character, locator.Hints{})
	s.Require().NoError(err)
	s.Assert().Equal(testutils.FeatureBardicInspiration, output.Name)
	s.Assert().Equal(
		"You can inspire others through stirring words or music.\nYou can use this feature 3 times per long rest.",
		output.Description)
}

func (s *HandlerTestSuite) TestGetFeatureDescriptionNullAbility() {
	req, err := structpb.NewStruct(map[string]interface{}{
		v1alpha1.FieldName: testutils.FeatureDwarvenToughness,
		v1alpha1.FieldCharacter: map[string]interface{}{
			v1alpha1.FieldAbilities: map[string]interface{}{"constitution": nil, "STR": 10},
		},
	})
	s.Require().NoError(err)

	resp, err := s.raw.GetFeatureDescription(s.ctx, req)
	s.Require().NoError(err)
	s.Assert().Equal(
		"Your hit point maximum increases by your Constitution modifier (?) plus 1.",
		resp.GetFields()[v1alpha1.FieldDescription].GetStringValue())
}

func (s *HandlerTestSuite) TestGetFeatureDescriptionNotFound() {
	_, err := s.client.GetFeatureDescription(s.ctx, "Wild Shape", nil, locator.Hints{})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Equal("Wild Shape", errors.MetaString(err, errors.MetaFeature))
}

func (s *HandlerTestSuite) TestInvalidRequests() {
	testCases := []struct {
		name   string
		call   func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)
		fields map[string]interface{}
	}{
		{"lookup without name", s.raw.LookupFeature, map[string]interface{}{}},
		{"describe with numeric name", s.raw.GetFeatureDescription, map[string]interface{}{v1alpha1.FieldName: 7}},
		{
			name: "describe with unknown ability",
			call: s.raw.GetFeatureDescription,
			fields: map[string]interface{}{
				v1alpha1.FieldName:      testutils.FeatureDarkvision,
				v1alpha1.FieldCharacter: map[string]interface{}{v1alpha1.FieldAbilities: map[string]interface{}{"luck": 12}},
			},
		},
		{
			name: "describe with fractional score",
			call: s.raw.GetFeatureDescription,
			fields: map[string]interface{}{
				v1alpha1.FieldName:      testutils.FeatureDarkvision,
				v1alpha1.FieldCharacter: map[string]interface{}{v1alpha1.FieldAbilities: map[string]interface{}{"STR": 12.5}},
			},
		},
		{"export with non-list names", s.raw.FormatFeaturesForPDF, map[string]interface{}{v1alpha1.FieldNames: "Darkvision"}},
		{"roll with unknown method", s.raw.RollAbilityScores, map[string]interface{}{v1alpha1.FieldMethod: "point_buy"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req, err := structpb.NewStruct(tc.fields)
			s.Require().NoError(err)

			_, err = tc.call(s.ctx, req)
			s.Require().Error(err)
			st, ok := status.FromError(err)
			s.Require().True(ok)
			s.Assert().Equal(codes.InvalidArgument, st.Code())
		})
	}
}

func (s *HandlerTestSuite) TestLookupFeature() {
	feature, err := s.client.LookupFeature(s.ctx, testutils.FeatureDarkvision, locator.Hints{Species: testutils.SpeciesElf})
	s.Require().NoError(err)
	s.Assert().Equal("feat-elf-darkvision", feature["id"])
	s.Assert().Equal(testutils.FeatureDarkvision, feature["name"])
	s.Assert().Equal("Accustomed to twilit forests, you see in dim light within 60 feet.", feature["description"])

	_, err = s.client.LookupFeature(s.ctx, "Wild Shape", locator.Hints{})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *HandlerTestSuite) TestFormatFeaturesForPDF() {
	output, err := s.client.FormatFeaturesForPDF(s.ctx,
		[]string{testutils.FeatureShelter, "Rage"},
		nil,
		locator.Hints{Background: testutils.BackgroundAcolyte})
	s.Require().NoError(err)
	s.Assert().Equal(
		"[[BOLD:Shelter of the Faithful]]\nYou command the respect of those who share your faith.\n\n• Rage",
		output.Text)
	s.Assert().Equal([]string{"Rage"}, output.Missing)
}

func (s *HandlerTestSuite) TestRollAbilityScores() {
	output, err := s.client.RollAbilityScores(s.ctx, dice.MethodStandard)
	s.Require().NoError(err)
	s.Assert().Equal(dice.MethodStandard, output.Method)
	s.Assert().Equal("roll_1", output.RollID)
	s.Require().Len(output.Scores, len(features.Abilities))
	for _, ability := range features.Abilities {
		s.Assert().Equal(12, output.Scores[ability])
	}
}

func (s *HandlerTestSuite) TestDescribeWithStoredRoll() {
	roll, err := s.client.RollAbilityScores(s.ctx, "")
	s.Require().NoError(err)
	s.Require().NotEmpty(roll.RollID)

	rolled := s.client.WithRoll(roll.RollID)

	// CHA 12 from the roll
	output, err := rolled.GetFeatureDescription(s.ctx, testutils.FeatureBardicInspiration, nil, locator.Hints{})
	s.Require().NoError(err)
	s.Assert().Contains(output.Description, "You can use this feature once per long rest.")

	// explicit scores win over the roll
	character := testutils.CreateTestCharacter(features.AbilityScores{features.AbilityCharisma: 16})
	output, err = rolled.GetFeatureDescription(s.ctx, testutils.FeatureBardicInspiration, character, locator.Hints{})
	s.Require().NoError(err)
	s.Assert().Contains(output.Description, "You can use this feature 3 times per long rest.")

	exported, err := rolled.FormatFeaturesForPDF(s.ctx, []string{testutils.FeatureBardicInspiration}, nil, locator.Hints{})
	s.Require().NoError(err)
	s.Assert().Contains(exported.Text, "once per long rest.")
}

func (s *HandlerTestSuite) TestDescribeWithUnknownRoll() {
	_, err := s.client.WithRoll("roll_404").GetFeatureDescription(s.ctx, testutils.FeatureBardicInspiration, nil, locator.Hints{})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}
